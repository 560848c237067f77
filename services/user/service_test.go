package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accountd/roles"
	"github.com/tech-arch1tect/accountd/testutils"
)

func TestService_Create(t *testing.T) {
	db := testutils.SetupTestDB(t, &User{})
	service := NewService(db, nil)
	ctx := context.Background()

	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := service.Create(ctx, "alice", "alice@example.com", "Password123", roles.RoleUser)

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.True(t, u.Active)
		assert.Equal(t, roles.RoleUser, u.Role)
		assert.NotEqual(t, "Password123", u.PasswordHash)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := service.Create(ctx, "bob", "bob@example.com", "Password123", roles.Role("root"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})
}

func TestService_Authenticate(t *testing.T) {
	db := testutils.SetupTestDB(t, &User{})
	service := NewService(db, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice", "alice@example.com", "Password123", roles.RoleAdmin)
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		u, err := service.Authenticate(ctx, "alice", "Password123")

		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, roles.RoleAdmin, u.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "alice", "WrongPassword1")
		testutils.AssertErrorType(t, ErrInvalidCredentials, err)
	})

	t.Run("unknown user collapses to invalid credentials", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "nobody", "Password123")
		testutils.AssertErrorType(t, ErrInvalidCredentials, err)
	})

	t.Run("disabled account", func(t *testing.T) {
		require.NoError(t, db.Model(&User{}).Where("id = ?", created.ID).Update("active", false).Error)

		_, err := service.Authenticate(ctx, "alice", "Password123")
		testutils.AssertErrorType(t, ErrAccountDisabled, err)
	})
}

func TestService_GetByID(t *testing.T) {
	db := testutils.SetupTestDB(t, &User{})
	service := NewService(db, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, "alice", "alice@example.com", "Password123", roles.RoleUser)
	require.NoError(t, err)

	u, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = service.GetByID(ctx, 9999)
	testutils.AssertErrorType(t, ErrUserNotFound, err)
}
