package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"accountd"`
	URL         string `env:"URL" envDefault:"http://localhost:8080"`
	Environment string `env:"ENV" envDefault:"development"`
}

func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	Host           string   `env:"HOST" envDefault:"localhost"`
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"accountd.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type JWTConfig struct {
	AccessSecret  string        `env:"ACCESS_SECRET"`
	RefreshSecret string        `env:"REFRESH_SECRET"`
	Algorithm     string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"ISSUER" envDefault:"accountd"`
}

// SessionConfig covers the persisted refresh sessions (cleanup cadence)
// and the optional sessionId tracing cookie.
type SessionConfig struct {
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	TraceEnabled    bool          `env:"TRACE_ENABLED" envDefault:"true"`
	TraceCookieName string        `env:"TRACE_COOKIE_NAME" envDefault:"sessionId"`
	TraceMaxAge     time.Duration `env:"TRACE_MAX_AGE" envDefault:"24h"`
	TraceStore      string        `env:"TRACE_STORE" envDefault:"database"`
}

func LoadConfig(cfg *Config) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	return Validate(cfg)
}

func Validate(cfg *Config) error {
	if err := validateJWTConfig(&cfg.JWT); err != nil {
		return err
	}

	switch cfg.Database.Driver {
	case "sqlite", "postgres", "postgresql", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}

	return nil
}

var weakSecretPatterns = []string{"password", "secret", "test", "example", "default", "change"}

func validateJWTConfig(cfg *JWTConfig) error {
	for name, secret := range map[string]string{
		"access":  cfg.AccessSecret,
		"refresh": cfg.RefreshSecret,
	} {
		if len(secret) < 32 {
			return fmt.Errorf("JWT %s secret key must be at least 32 characters long", name)
		}

		lower := strings.ToLower(secret)
		for _, pattern := range weakSecretPatterns {
			if strings.Contains(lower, pattern) {
				return fmt.Errorf("JWT %s secret key contains weak patterns", name)
			}
		}
	}

	if cfg.AccessSecret == cfg.RefreshSecret {
		return fmt.Errorf("JWT access and refresh secret keys must differ")
	}

	if cfg.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm: %s (only HS256 is supported)", cfg.Algorithm)
	}

	if cfg.AccessExpiry <= 0 || cfg.RefreshExpiry <= 0 {
		return fmt.Errorf("JWT token expiries must be positive")
	}

	return nil
}
