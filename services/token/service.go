package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tech-arch1tect/accountd/config"
	"github.com/tech-arch1tect/accountd/roles"
	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/zap"
)

// ErrInvalidToken is the only failure verification reports. Malformed
// tokens, bad signatures and expired timestamps are deliberately
// indistinguishable to callers; the detail goes to the log.
var ErrInvalidToken = errors.New("invalid token")

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

type Claims struct {
	UserID    uint       `json:"user_id"`
	Role      roles.Role `json:"role,omitempty"`
	TokenType string     `json:"token_type"`
	JTI       string     `json:"jti"`
	jwt.RegisteredClaims
}

// Service signs and verifies the access/refresh token pair. Signing key
// material lives only in the injected config, loaded once at startup.
type Service struct {
	config *config.Config
	logger *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	return &Service{
		config: cfg,
		logger: logger,
	}
}

func (s *Service) AccessExpiry() time.Duration {
	return s.config.JWT.AccessExpiry
}

func (s *Service) RefreshExpiry() time.Duration {
	return s.config.JWT.RefreshExpiry
}

// IssueAccessToken signs a short-lived stateless credential carrying the
// subject's identity and role. No side effects.
func (s *Service) IssueAccessToken(userID uint, role roles.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.JWT.AccessExpiry)
	jti := uuid.New().String()

	claims := Claims{
		UserID:    userID,
		Role:      role,
		TokenType: typeAccess,
		JTI:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWT.AccessSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, expiresAt, nil
}

// IssueRefreshToken signs a long-lived credential with a fresh random jti.
// The caller is responsible for persisting the jti as a session; this
// method has no side effects.
func (s *Service) IssueRefreshToken(userID uint) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.JWT.RefreshExpiry)
	jti := uuid.New().String()

	claims := Claims{
		UserID:    userID,
		TokenType: typeRefresh,
		JTI:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.config.JWT.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  []string{s.config.JWT.Issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.config.JWT.RefreshSecret))
	if err != nil {
		s.logger.Error("failed to sign refresh token", zap.Error(err))
		return "", "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return signed, jti, expiresAt, nil
}

// VerifyAccessToken checks signature and expiry only.
func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, typeAccess, s.config.JWT.AccessSecret)
}

// VerifyRefreshToken checks signature and expiry only. Whether the token's
// jti still maps to a live session is the lifecycle manager's concern.
func (s *Service) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, typeRefresh, s.config.JWT.RefreshSecret)
}

func (s *Service) verify(tokenString, wantType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() == "none" {
			return nil, errors.New("'none' algorithm is not allowed")
		}

		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected algorithm: expected HS256, got %s", token.Method.Alg())
		}

		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid algorithm family: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			s.logger.Warn("token verification failed - expired", zap.String("token_type", wantType))
		case errors.Is(err, jwt.ErrTokenMalformed):
			s.logger.Warn("token verification failed - malformed", zap.String("token_type", wantType))
		case errors.Is(err, jwt.ErrSignatureInvalid):
			s.logger.Warn("token verification failed - bad signature", zap.String("token_type", wantType))
		default:
			s.logger.Warn("token verification failed", zap.String("token_type", wantType), zap.Error(err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != wantType {
		s.logger.Warn("token verification failed - wrong token type",
			zap.String("expected", wantType),
			zap.String("got", claims.TokenType))
		return nil, ErrInvalidToken
	}

	if claims.JTI == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
