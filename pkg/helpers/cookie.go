package helpers

import (
	"net/http"
	"time"
)

const (
	RefreshTokenCookie = "refreshToken"
	localCookieDomain  = "localhost"
)

// RefreshCookie writes and clears the refresh token cookie.
// Clear must repeat the scoping attributes of Set or browsers keep the old cookie.
type RefreshCookie struct {
	Domain string
	Secure bool
	TTL    time.Duration

	now func() time.Time
}

// NewRefreshCookie scopes the cookie to domain in production and to localhost otherwise.
func NewRefreshCookie(production bool, domain string, ttl time.Duration) *RefreshCookie {
	c := &RefreshCookie{Domain: localCookieDomain, TTL: ttl, now: time.Now}
	if production {
		c.Domain = domain
		c.Secure = true
	}
	return c
}

func (m *RefreshCookie) base() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenCookie,
		Path:     "/",
		Domain:   m.Domain,
		Secure:   m.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (m *RefreshCookie) Set(w http.ResponseWriter, token string) {
	now := time.Now
	if m.now != nil {
		now = m.now
	}
	ck := m.base()
	ck.Value = token
	ck.Expires = now().Add(m.TTL)
	ck.MaxAge = maxAgeFrom(ck.Expires, now())
	http.SetCookie(w, ck)
}

func (m *RefreshCookie) Clear(w http.ResponseWriter) {
	ck := m.base()
	ck.Expires = time.Unix(0, 0)
	ck.MaxAge = -1
	http.SetCookie(w, ck)
}

func maxAgeFrom(exp, now time.Time) int {
	sec := int(exp.Sub(now).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
