package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/gormstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accountd/config"
	"gorm.io/gorm"
)

// TraceManager issues the optional sessionId cookie used for lightweight
// request tracing. It is independent of the auth token cookies and never
// consulted for authentication.
type TraceManager struct {
	*scs.SessionManager
	config config.SessionConfig
}

func NewTraceManager(cfg *config.Config, db *gorm.DB) (*TraceManager, error) {
	if !cfg.Session.TraceEnabled {
		return nil, nil
	}

	manager := scs.New()

	var store scs.Store
	var err error

	switch cfg.Session.TraceStore {
	case "memory":
		store = memstore.New()
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database trace store requires database to be enabled")
		}
		store, err = gormstore.NewWithCleanupInterval(db, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to create database trace store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported trace store: %s", cfg.Session.TraceStore)
	}

	manager.Store = store
	manager.Lifetime = cfg.Session.TraceMaxAge
	manager.IdleTimeout = cfg.Session.TraceMaxAge
	manager.Cookie.Name = cfg.Session.TraceCookieName
	manager.Cookie.Path = "/"
	manager.Cookie.HttpOnly = true
	manager.Cookie.Secure = cfg.App.IsProduction()
	manager.Cookie.SameSite = http.SameSiteStrictMode

	return &TraceManager{
		SessionManager: manager,
		config:         cfg.Session,
	}, nil
}

// TraceMiddleware adapts scs's LoadAndSave to echo.
func TraceMiddleware(manager *TraceManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if manager == nil {
				return next(c)
			}

			var handlerErr error

			rw := &responseWriterWrapper{
				ResponseWriter: c.Response().Writer,
				echo:           c.Response(),
			}

			handler := manager.SessionManager.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), traceManagerKey{}, manager)
				c.SetRequest(r.WithContext(ctx))
				c.Response().Writer = w
				handlerErr = next(c)
			}))

			handler.ServeHTTP(rw, c.Request())
			return handlerErr
		}
	}
}

type traceManagerKey struct{}

func TraceManagerFromContext(ctx context.Context) *TraceManager {
	if manager, ok := ctx.Value(traceManagerKey{}).(*TraceManager); ok {
		return manager
	}
	return nil
}

// responseWriterWrapper keeps echo's response bookkeeping consistent when
// scs writes headers through the wrapped writer.
type responseWriterWrapper struct {
	http.ResponseWriter
	echo *echo.Response
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	if w.echo.Status == 0 {
		w.echo.Status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}
