// Package token inspects bearer tokens on the client side: it decodes the
// claims segment to read the expiry, without verifying the signature.
// Verification is the server's job; the client only needs to know when to
// refresh.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryThreshold is how close to expiry a token may get before the
// client refreshes it proactively.
const DefaultExpiryThreshold = 15 * time.Minute

// Claims is the subset of token claims the client cares about.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// timeNow is a test seam.
var timeNow = time.Now

// parser decodes without validating claims; expiry checks are done
// explicitly by IsExpiringSoon so a stale token still decodes.
var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Decode splits the token into its three segments and parses the claims
// segment. It returns (nil, false) on any malformation: wrong segment
// count, invalid base64url encoding, or invalid claims structure. It never
// returns an error to the caller.
func Decode(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsExpiringSoon reports whether the token expires within threshold.
// An absent or malformed token, or one without an exp claim, reports true:
// treating a bad token as expiring triggers a proactive refresh instead of
// silently running with it.
func IsExpiringSoon(tokenString string, threshold time.Duration) bool {
	claims, ok := Decode(tokenString)
	if !ok || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Sub(timeNow()) < threshold
}
