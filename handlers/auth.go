// Package handlers exposes the authentication HTTP surface:
// login, refresh, logout, profile and active-session listing.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/middleware/tokenauth"
	"github.com/tech-arch1tect/accountd/server"
	"github.com/tech-arch1tect/accountd/services/auth"
	"github.com/tech-arch1tect/accountd/services/device"
	"github.com/tech-arch1tect/accountd/services/logging"
	"github.com/tech-arch1tect/accountd/services/token"
	"github.com/tech-arch1tect/accountd/services/user"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *auth.Service
	users  *user.Service
	tokens *token.Service
	cfg    *config.Config
	logger *logging.Service
}

func NewAuthHandler(authSvc *auth.Service, users *user.Service, tokens *token.Service, cfg *config.Config, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		logger: logger,
	}
}

func (h *AuthHandler) RegisterRoutes(srv *server.Server) {
	srv.Post("/auth/login", h.Login)
	srv.Post("/auth/refresh", h.Refresh)
	srv.Post("/auth/logout", h.Logout)

	guard := tokenauth.RequireAuth(h.tokens)
	srv.Get("/auth/profile", h.Profile, guard)
	srv.Get("/auth/sessions", h.Sessions, guard)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      *user.User `json:"user"`
	ExpiresAt time.Time  `json:"expires_at"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return h.respondError(c, http.StatusBadRequest, "username and password are required")
	}

	meta := device.FromRequest(c.Request())

	u, pair, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, meta)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrAccountDisabled):
			// one message for both, account state is not an oracle
			return h.respondError(c, http.StatusUnauthorized, "invalid credentials")
		default:
			h.logger.Error("login failed", zap.Error(err))
			return h.respondInternal(c, err)
		}
	}

	h.setTokenCookies(c, pair)

	return c.JSON(http.StatusOK, loginResponse{
		User:      u,
		ExpiresAt: pair.AccessExpiresAt,
	})
}

// Refresh rotates the token pair. Every failure collapses to the same 401
// with cleared cookies; the client never learns whether the token was
// malformed, expired, rotated or stolen.
func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshToken := refreshTokenFromRequest(c)
	if refreshToken == "" {
		h.clearTokenCookies(c)
		return h.respondError(c, http.StatusUnauthorized, "authentication required")
	}

	meta := device.FromRequest(c.Request())

	pair, err := h.auth.Refresh(c.Request().Context(), refreshToken, meta)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidToken),
			errors.Is(err, auth.ErrReuseDetected),
			errors.Is(err, auth.ErrSessionExpired),
			errors.Is(err, user.ErrUserNotFound),
			errors.Is(err, user.ErrAccountDisabled):
			h.clearTokenCookies(c)
			return h.respondError(c, http.StatusUnauthorized, "authentication required")
		default:
			// half-completed rotation included: force a full re-login
			h.logger.Error("refresh failed", zap.Error(err))
			h.clearTokenCookies(c)
			return h.respondInternal(c, err)
		}
	}

	h.setTokenCookies(c, pair)

	return c.JSON(http.StatusOK, map[string]any{
		"expires_at": pair.AccessExpiresAt,
	})
}

// Logout never fails the caller; cookies are cleared regardless of what
// the server thinks of the presented token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if refreshToken := refreshTokenFromRequest(c); refreshToken != "" {
		h.auth.Logout(c.Request().Context(), refreshToken)
	}

	h.clearTokenCookies(c)

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	u, err := h.users.GetByID(c.Request().Context(), tokenauth.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return h.respondError(c, http.StatusNotFound, "user not found")
		}
		h.logger.Error("profile lookup failed", zap.Error(err))
		return h.respondInternal(c, err)
	}

	return c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Sessions(c echo.Context) error {
	// flag the caller's own session when the refresh cookie is present
	currentJTI := ""
	if refreshToken := refreshTokenFromRequest(c); refreshToken != "" {
		if claims, err := h.tokens.VerifyRefreshToken(refreshToken); err == nil {
			currentJTI = claims.JTI
		}
	}

	sessions, err := h.auth.Sessions(c.Request().Context(), tokenauth.CurrentUserID(c), currentJTI)
	if err != nil {
		h.logger.Error("session listing failed", zap.Error(err))
		return h.respondInternal(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"sessions": sessions})
}
