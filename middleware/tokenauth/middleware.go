// Package tokenauth is the server-side authorization guard. It verifies
// the stateless access token and never consults the session store: an
// access token cannot be revoked before its short expiry elapses, by
// design only refresh tokens are revocable.
package tokenauth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accountd/roles"
	"github.com/tech-arch1tect/accountd/services/token"
)

const (
	// AccessCookieName is the primary token transport.
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"

	userIDKey = "_auth_user_id"
	roleKey   = "_auth_role"
	claimsKey = "_auth_claims"
)

// extractToken reads the access token from the cookie, falling back to a
// bearer Authorization header for clients without a cookie jar.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(AccessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// RequireAuth verifies an access token and attaches the decoded identity
// to the request context. All verification failures produce the same 401.
func RequireAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := extractToken(c)
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(userIDKey, claims.UserID)
			c.Set(roleKey, claims.Role)
			c.Set(claimsKey, claims)

			return next(c)
		}
	}
}

// RequireRole guards a route behind a minimum privilege level. It must be
// mounted after RequireAuth.
func RequireRole(minimum roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !roles.HasRole(CurrentRole(c), minimum) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

// RequireAnyRole guards a route behind a set of allowed roles.
func RequireAnyRole(allowed ...roles.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !roles.HasAnyRole(CurrentRole(c), allowed) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

func CurrentUserID(c echo.Context) uint {
	if userID, ok := c.Get(userIDKey).(uint); ok {
		return userID
	}
	return 0
}

func CurrentRole(c echo.Context) roles.Role {
	if role, ok := c.Get(roleKey).(roles.Role); ok {
		return role
	}
	return ""
}

func CurrentClaims(c echo.Context) *token.Claims {
	if claims, ok := c.Get(claimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}

// CurrentUser returns the guard's identity in the shape the route
// accessibility helpers consume, or nil when unauthenticated.
func CurrentUser(c echo.Context) *roles.SessionUser {
	claims := CurrentClaims(c)
	if claims == nil {
		return nil
	}
	return &roles.SessionUser{
		ID:   claims.UserID,
		Role: claims.Role,
	}
}
