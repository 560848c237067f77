package session

import (
	"context"

	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideStore(db *gorm.DB, logger *logging.Service) Store {
	return NewStore(db, logger)
}

func ProvideJanitor(store Store, cfg *config.Config, logger *logging.Service) *Janitor {
	return NewJanitor(store, cfg.Session.CleanupInterval, logger)
}

var Module = fx.Module("session",
	fx.Provide(ProvideStore),
	fx.Provide(ProvideJanitor),
	fx.Invoke(func(lc fx.Lifecycle, janitor *Janitor) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				janitor.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				janitor.Stop()
				return nil
			},
		})
	}),
)
