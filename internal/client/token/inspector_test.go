package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	return signedToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(d)),
	})
}

func TestDecode_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
		UserID:           "42",
	})

	claims, ok := Decode(s)
	require.True(t, ok)
	require.NotNil(t, claims.ExpiresAt)
	require.True(t, claims.ExpiresAt.Time.Equal(exp))
	require.Equal(t, "42", claims.UserID)
}

func TestDecode_Malformed(t *testing.T) {
	// a structurally valid claims segment, for padding out bad tokens
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":123}`))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no dots", "nodots"},
		{"two segments", "a." + payload},
		{"four segments", "a." + payload + ".c.d"},
		{"invalid base64 payload", "a.$$$$.c"},
		{"payload not json", "a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, ok := Decode(tc.token)
			require.False(t, ok)
			require.Nil(t, claims)
		})
	}
}

func TestDecode_ExpiredTokenStillDecodes(t *testing.T) {
	s := tokenExpiringIn(t, -time.Hour)
	_, ok := Decode(s)
	require.True(t, ok)
}

func TestIsExpiringSoon(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty token", "", true},
		{"malformed token", "a.b", true},
		{"no exp claim", signedToken(t, Claims{UserID: "1"}), true},
		{"expires in 20m", tokenExpiringIn(t, 20*time.Minute), false},
		{"expires in 5m", tokenExpiringIn(t, 5*time.Minute), true},
		{"already expired", tokenExpiringIn(t, -time.Minute), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsExpiringSoon(tc.token, DefaultExpiryThreshold))
		})
	}
}

func TestIsExpiringSoon_CustomThreshold(t *testing.T) {
	s := tokenExpiringIn(t, 10*time.Minute)
	require.False(t, IsExpiringSoon(s, 5*time.Minute))
	require.True(t, IsExpiringSoon(s, 15*time.Minute))
}
