package token

import (
	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/fx"
)

func NewTokenService(cfg *config.Config, logger *logging.Service) *Service {
	return NewService(cfg, logger)
}

var Options = fx.Options(
	fx.Provide(NewTokenService),
)
