package testutils

import (
	"time"

	"github.com/tech-arch1tect/accountd/config"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "accountd",
			URL:         "http://localhost:8080",
			Environment: "development",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
		JWT: config.JWTConfig{
			AccessSecret:  "k4j3h2g1f0e9d8c7b6a5z4y3x2w1v0u9",
			RefreshSecret: "q9w8e7r6t5y4u3i2o1p0a9s8d7f6g5h4",
			Algorithm:     "HS256",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
			Issuer:        "accountd-tests",
		},
		Session: config.SessionConfig{
			CleanupInterval: time.Hour,
			TraceEnabled:    false,
			TraceCookieName: "sessionId",
			TraceMaxAge:     24 * time.Hour,
			TraceStore:      "memory",
		},
	}
}
