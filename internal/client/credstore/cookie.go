package credstore

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// CookieMedium stores credentials as cookies in an http.CookieJar bound to
// the API origin. The same jar is installed on the HTTP client, so every
// outgoing request carries the cookies and server-side checks can read
// them. Cookies are set with Path=/ and an explicit expiry.
type CookieMedium struct {
	jar    http.CookieJar
	origin *url.URL
}

func NewCookieMedium(jar http.CookieJar, origin *url.URL) *CookieMedium {
	return &CookieMedium{jar: jar, origin: origin}
}

func (m *CookieMedium) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	m.jar.SetCookies(m.origin, []*http.Cookie{{
		Name:    name,
		Value:   value,
		Path:    "/",
		Expires: time.Now().Add(ttl),
	}})
	return nil
}

func (m *CookieMedium) Get(ctx context.Context, name string) (string, error) {
	for _, c := range m.jar.Cookies(m.origin) {
		if c.Name == name {
			return c.Value, nil
		}
	}
	return "", nil
}

// Remove expires the cookie; the jar drops it on the next read.
func (m *CookieMedium) Remove(ctx context.Context, name string) error {
	m.jar.SetCookies(m.origin, []*http.Cookie{{
		Name:    name,
		Value:   "",
		Path:    "/",
		MaxAge:  -1,
		Expires: time.Unix(1, 0),
	}})
	return nil
}
