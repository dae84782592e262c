package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-org-site/models"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

type cookieSettings struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func (c cookieSettings) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// setAuthCookies gives each cookie the remaining lifetime of its token. The
// configured TTL is used for pairs that carry no expiry.
func (c cookieSettings) setAuthCookies(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, c.cookie(accessTokenCookie, pair.AccessToken, lifetime(pair.AccessExpiresAt, c.accessTTL)))
	http.SetCookie(w, c.cookie(refreshTokenCookie, pair.RefreshToken, lifetime(pair.RefreshExpiresAt, c.refreshTTL)))
}

func lifetime(expiresAt time.Time, fallback time.Duration) time.Duration {
	if expiresAt.IsZero() {
		return fallback
	}
	return max(time.Until(expiresAt), time.Second)
}

// clearAuthCookies expires both auth cookies. MaxAge -1 makes net/http emit
// "Max-Age=0".
func (c cookieSettings) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(accessTokenCookie, "", -time.Second))
	http.SetCookie(w, c.cookie(refreshTokenCookie, "", -time.Second))
}
