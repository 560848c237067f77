package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *AuthHandler) respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

// respondInternal hides the underlying failure in production and surfaces
// it during development.
func (h *AuthHandler) respondInternal(c echo.Context, err error) error {
	message := "internal server error"
	if !h.cfg.App.IsProduction() && err != nil {
		message = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: message})
}
