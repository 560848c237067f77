package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRole(t *testing.T) {
	tests := []struct {
		name string
		have Role
		want Role
		ok   bool
	}{
		{"user satisfies user", RoleUser, RoleUser, true},
		{"admin satisfies user", RoleAdmin, RoleUser, true},
		{"admin satisfies admin", RoleAdmin, RoleAdmin, true},
		{"user does not satisfy admin", RoleUser, RoleAdmin, false},
		{"unknown role satisfies nothing", Role("superuser"), RoleUser, false},
		{"unknown requirement never satisfied", RoleAdmin, Role("owner"), false},
		{"empty role satisfies nothing", Role(""), RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, HasRole(tt.have, tt.want))
		})
	}
}

func TestHasRole_Monotonic(t *testing.T) {
	// every role ranked at or above the requirement satisfies it, no other does
	for i, want := range Hierarchy {
		for j, have := range Hierarchy {
			assert.Equal(t, j >= i, HasRole(have, want),
				"HasRole(%s, %s)", have, want)
		}
	}
}

func TestHasAnyRole(t *testing.T) {
	assert.True(t, HasAnyRole(RoleAdmin, []Role{RoleAdmin}))
	assert.True(t, HasAnyRole(RoleAdmin, []Role{RoleUser}))
	assert.True(t, HasAnyRole(RoleUser, []Role{RoleAdmin, RoleUser}))
	assert.False(t, HasAnyRole(RoleUser, []Role{RoleAdmin}))
	assert.False(t, HasAnyRole(RoleUser, nil))
	assert.False(t, HasAnyRole(Role("unknown"), []Role{RoleUser, RoleAdmin}))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(RoleUser))
	assert.True(t, Valid(RoleAdmin))
	assert.False(t, Valid(Role("root")))
	assert.False(t, Valid(Role("")))
}

func TestIsRouteAccessible(t *testing.T) {
	admin := &SessionUser{ID: 1, Role: RoleAdmin}
	user := &SessionUser{ID: 2, Role: RoleUser}

	assert.False(t, IsRouteAccessible(nil, []Role{RoleAdmin}))
	assert.False(t, IsRouteAccessible(nil, nil))
	assert.True(t, IsRouteAccessible(admin, []Role{RoleAdmin}))
	assert.False(t, IsRouteAccessible(user, []Role{RoleAdmin}))
	assert.True(t, IsRouteAccessible(user, nil), "authentication alone suffices when no roles are required")
	assert.True(t, IsRouteAccessible(user, []Role{RoleUser}))
	assert.True(t, IsRouteAccessible(admin, []Role{RoleUser}))
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "/admin", DefaultPath(RoleAdmin))
	assert.Equal(t, "/dashboard", DefaultPath(RoleUser))
	assert.Equal(t, "/dashboard", DefaultPath(Role("unknown")))
}

func TestRedirectPath(t *testing.T) {
	t.Run("unauthenticated goes to login", func(t *testing.T) {
		path, redirect := RedirectPath(nil, []Role{RoleAdmin})
		assert.True(t, redirect)
		assert.Equal(t, LoginPath, path)
	})

	t.Run("accessible route needs no redirect", func(t *testing.T) {
		_, redirect := RedirectPath(&SessionUser{ID: 1, Role: RoleAdmin}, []Role{RoleAdmin})
		assert.False(t, redirect)
	})

	t.Run("insufficient privilege falls back to own landing page", func(t *testing.T) {
		path, redirect := RedirectPath(&SessionUser{ID: 2, Role: RoleUser}, []Role{RoleAdmin})
		assert.True(t, redirect)
		assert.Equal(t, "/dashboard", path)
	})
}
