package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accountd/roles"
	"github.com/tech-arch1tect/accountd/testutils"
)

func TestService_IssueAccessToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("round trip preserves identity and role", func(t *testing.T) {
		tokenString, expiresAt, err := service.IssueAccessToken(123, roles.RoleAdmin)

		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)
		assert.WithinDuration(t, time.Now().Add(cfg.JWT.AccessExpiry), expiresAt, 5*time.Second)

		claims, err := service.VerifyAccessToken(tokenString)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, roles.RoleAdmin, claims.Role)
		assert.NotEmpty(t, claims.JTI)
		assert.Equal(t, cfg.JWT.Issuer, claims.Issuer)
	})

	t.Run("generates unique jti per token", func(t *testing.T) {
		t1, _, err := service.IssueAccessToken(123, roles.RoleUser)
		require.NoError(t, err)
		t2, _, err := service.IssueAccessToken(123, roles.RoleUser)
		require.NoError(t, err)

		c1, err := service.VerifyAccessToken(t1)
		require.NoError(t, err)
		c2, err := service.VerifyAccessToken(t2)
		require.NoError(t, err)

		assert.NotEqual(t, c1.JTI, c2.JTI)
	})
}

func TestService_IssueRefreshToken(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	tokenString, jti, expiresAt, err := service.IssueRefreshToken(123)

	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.NotEmpty(t, jti)
	assert.WithinDuration(t, time.Now().Add(cfg.JWT.RefreshExpiry), expiresAt, 5*time.Second)

	claims, err := service.VerifyRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, uint(123), claims.UserID)
	assert.Equal(t, jti, claims.JTI, "returned jti matches the signed claim")
	assert.Empty(t, claims.Role, "refresh tokens carry no role")
}

func TestService_VerifyAccessToken_Failures(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	// every failure mode collapses to the same ErrInvalidToken
	t.Run("malformed token", func(t *testing.T) {
		_, err := service.VerifyAccessToken("invalid.token.string")
		testutils.AssertErrorType(t, ErrInvalidToken, err)
	})

	t.Run("expired token with valid signature", func(t *testing.T) {
		now := time.Now()
		claims := Claims{
			UserID:    123,
			Role:      roles.RoleUser,
			TokenType: typeAccess,
			JTI:       "expired-jti",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "expired-jti",
				Issuer:    cfg.JWT.Issuer,
				Subject:   "123",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
				NotBefore: jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			},
		}

		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(cfg.JWT.AccessSecret))
		require.NoError(t, err)

		_, verifyErr := service.VerifyAccessToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})

	t.Run("wrong signature", func(t *testing.T) {
		other := testutils.GetTestConfig()
		other.JWT.AccessSecret = "11112222333344445555666677778888"
		otherService := NewService(other, nil)

		tokenString, _, err := otherService.IssueAccessToken(123, roles.RoleUser)
		require.NoError(t, err)

		_, verifyErr := service.VerifyAccessToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		tokenString, _, _, err := service.IssueRefreshToken(123)
		require.NoError(t, err)

		_, verifyErr := service.VerifyAccessToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})

	t.Run("none algorithm rejected", func(t *testing.T) {
		claims := Claims{
			UserID:    123,
			TokenType: typeAccess,
			JTI:       "none-jti",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "none-jti",
				Issuer:    cfg.JWT.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}

		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, verifyErr := service.VerifyAccessToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})

	t.Run("missing jti rejected", func(t *testing.T) {
		claims := Claims{
			UserID:    123,
			TokenType: typeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.JWT.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}

		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(cfg.JWT.AccessSecret))
		require.NoError(t, err)

		_, verifyErr := service.VerifyAccessToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})
}

func TestService_VerifyRefreshToken_Failures(t *testing.T) {
	cfg := testutils.GetTestConfig()
	service := NewService(cfg, nil)

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		tokenString, _, err := service.IssueAccessToken(123, roles.RoleUser)
		require.NoError(t, err)

		_, verifyErr := service.VerifyRefreshToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})

	t.Run("access-secret-signed refresh claims rejected", func(t *testing.T) {
		claims := Claims{
			UserID:    123,
			TokenType: typeRefresh,
			JTI:       "cross-jti",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "cross-jti",
				Issuer:    cfg.JWT.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}

		tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(cfg.JWT.AccessSecret))
		require.NoError(t, err)

		_, verifyErr := service.VerifyRefreshToken(tokenString)
		testutils.AssertErrorType(t, ErrInvalidToken, verifyErr)
	})
}
