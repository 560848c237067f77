package app

import (
	"fmt"

	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/database"
	"github.com/tech-arch1tect/accountd/handlers"
	"github.com/tech-arch1tect/accountd/server"
	"github.com/tech-arch1tect/accountd/services/auth"
	"github.com/tech-arch1tect/accountd/services/logging"
	"github.com/tech-arch1tect/accountd/services/token"
	"github.com/tech-arch1tect/accountd/services/user"
	"github.com/tech-arch1tect/accountd/session"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type AppBuilder struct {
	config    *config.Config
	services  map[string]bool
	models    []any
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{
		services:  make(map[string]bool),
		models:    make([]any, 0),
		fxOptions: make([]fx.Option, 0),
		errors:    make([]error, 0),
	}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithDatabase(models ...any) *AppBuilder {
	b.services["database"] = true
	b.models = append(b.models, models...)
	return b
}

// WithAuth wires the token codec, session store and janitor, user accounts,
// the auth lifecycle service and its HTTP handlers.
func (b *AppBuilder) WithAuth() *AppBuilder {
	b.services["auth"] = true
	b.services["database"] = true
	b.models = append(b.models, &user.User{}, &session.Session{})
	return b
}

// WithTraceSessions enables the cookie-backed trace session middleware.
// It is observability plumbing only and grants nothing.
func (b *AppBuilder) WithTraceSessions() *AppBuilder {
	b.services["trace"] = true
	b.services["database"] = true
	return b
}

func (b *AppBuilder) WithRequestLogging() *AppBuilder {
	b.services["request_logging"] = true
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	if b.config == nil {
		if err := b.WithAutoConfig().validate(); err != nil {
			return nil, err
		}
	}

	logger, err := logging.NewService(b.config.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := b.buildDatabase()
	if err != nil {
		return nil, err
	}

	fxOptions := b.buildFxOptions(db, logger)

	app := &App{
		config: b.config,
		logger: logger,
		db:     db,
	}

	fxOptions = append(fxOptions, fx.Invoke(func(srv *server.Server) {
		app.server = srv
	}))

	app.fx = fx.New(fxOptions...)

	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, fmt.Errorf("%s", msg))
}

func (b *AppBuilder) validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("configuration errors: %v", b.errors)
	}
	return nil
}

func (b *AppBuilder) buildDatabase() (*gorm.DB, error) {
	if !b.services["database"] {
		return nil, nil
	}

	modelsOpt := &database.ModelsOption{}
	if len(b.models) > 0 {
		modelsOpt = database.WithModels(b.models...)
	}

	db, err := database.ProvideDatabase(*b.config, modelsOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func (b *AppBuilder) buildFxOptions(db *gorm.DB, logger *logging.Service) []fx.Option {
	var options []fx.Option

	options = append(options,
		config.NewProvider(b.config),
		fx.Supply(logger),
		fx.NopLogger,
	)

	if db != nil {
		options = append(options, fx.Supply(db))
	}

	options = append(options, server.NewProvider())

	if b.services["auth"] {
		options = append(options,
			token.Options,
			session.Module,
			user.Module,
			auth.Module,
			handlers.Module,
		)
	}

	if b.services["trace"] && b.config.Session.TraceEnabled {
		options = append(options,
			fx.Provide(session.NewTraceManager),
			fx.Invoke(func(srv *server.Server, manager *session.TraceManager) {
				srv.Echo().Use(session.TraceMiddleware(manager))
			}),
		)
	}

	if b.services["request_logging"] {
		options = append(options, fx.Invoke(func(srv *server.Server, logger *logging.Service) {
			srv.Echo().Use(logging.RequestLogger(logger))
		}))
	}

	options = append(options, b.fxOptions...)

	return options
}
