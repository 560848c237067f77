package server

import (
	"fmt"
	"net"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/zap"
)

type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	logger *logging.Service
}

func New(cfg *config.Config, logger *logging.Service) *Server {
	e := echo.New()
	e.HideBanner = true

	if len(cfg.Server.TrustedProxies) > 0 {
		options := make([]echo.TrustOption, 0, len(cfg.Server.TrustedProxies))
		for _, proxy := range cfg.Server.TrustedProxies {
			if _, ipNet, err := net.ParseCIDR(proxy); err == nil {
				options = append(options, echo.TrustIPRange(ipNet))
				continue
			}
			if ip := net.ParseIP(proxy); ip != nil {
				bits := 32
				if ip.To4() == nil {
					bits = 128
				}
				options = append(options, echo.TrustIPRange(&net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}))
			}
		}
		e.IPExtractor = echo.ExtractIPFromXFFHeader(options...)
	}

	return &Server{
		echo:   e,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	s.logger.Info("starting server", zap.String("addr", addr))

	if err := s.echo.Start(addr); err != nil {
		s.logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *Server) Get(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.GET(path, handler, middleware...)
}

func (s *Server) Post(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.POST(path, handler, middleware...)
}

func (s *Server) Delete(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) {
	s.echo.DELETE(path, handler, middleware...)
}

func (s *Server) Group(prefix string, middleware ...echo.MiddlewareFunc) *echo.Group {
	return s.echo.Group(prefix, middleware...)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
