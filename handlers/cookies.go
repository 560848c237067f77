package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accountd/middleware/tokenauth"
	"github.com/tech-arch1tect/accountd/services/auth"
)

func (h *AuthHandler) tokenCookie(name, value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.App.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) setTokenCookies(c echo.Context, pair *auth.TokenPair) {
	c.SetCookie(h.tokenCookie(tokenauth.AccessCookieName, pair.AccessToken, pair.AccessExpiresAt))
	c.SetCookie(h.tokenCookie(tokenauth.RefreshCookieName, pair.RefreshToken, pair.RefreshExpiresAt))
}

// clearTokenCookies always proceeds, matching the principle that clearing
// client-side cookies never depends on server-side token validity.
func (h *AuthHandler) clearTokenCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(h.tokenCookie(tokenauth.AccessCookieName, "", expired))
	c.SetCookie(h.tokenCookie(tokenauth.RefreshCookieName, "", expired))
}

func refreshTokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(tokenauth.RefreshCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
