package auth

import (
	"github.com/tech-arch1tect/accountd/services/logging"
	"github.com/tech-arch1tect/accountd/services/token"
	"github.com/tech-arch1tect/accountd/services/user"
	"github.com/tech-arch1tect/accountd/session"
	"go.uber.org/fx"
)

func ProvideAuthService(tokens *token.Service, sessions session.Store, users *user.Service, logger *logging.Service) *Service {
	return NewService(tokens, sessions, users, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
)
