// Package roles defines the ordered privilege hierarchy shared by the
// server-side guard and the client redirect logic.
package roles

// Role is kept in string form for easy persistence and cookies.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Hierarchy lists roles from least to most privileged. Holding a role
// implies holding every role ranked below it.
var Hierarchy = []Role{RoleUser, RoleAdmin}

func rank(r Role) int {
	for i, candidate := range Hierarchy {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Valid reports whether r is part of the hierarchy.
func Valid(r Role) bool {
	return rank(r) >= 0
}

// HasRole reports whether have is ranked at or above want. Unknown roles
// rank below everything and never satisfy a requirement.
func HasRole(have, want Role) bool {
	h, w := rank(have), rank(want)
	if h < 0 || w < 0 {
		return false
	}
	return h >= w
}

// HasAnyRole reports whether have satisfies at least one allowed role.
func HasAnyRole(have Role, allowed []Role) bool {
	for _, want := range allowed {
		if HasRole(have, want) {
			return true
		}
	}
	return false
}

// SessionUser is the minimal identity the route guard needs.
type SessionUser struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

// IsRouteAccessible decides whether a user may visit a route. A nil user is
// unauthenticated and may visit nothing guarded; an empty allowed list
// means authentication alone suffices.
func IsRouteAccessible(u *SessionUser, allowed []Role) bool {
	if u == nil {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	return HasAnyRole(u.Role, allowed)
}

const LoginPath = "/login"

// DefaultPath maps a role to its landing page after login.
func DefaultPath(r Role) string {
	switch r {
	case RoleAdmin:
		return "/admin"
	default:
		return "/dashboard"
	}
}

// RedirectPath determines where to send a user who requested a route they
// cannot access: unauthenticated users go to the login page, authenticated
// users with insufficient privilege fall back to their own landing page.
// The second return is false when no redirect is needed.
func RedirectPath(u *SessionUser, allowed []Role) (string, bool) {
	if u == nil {
		return LoginPath, true
	}
	if IsRouteAccessible(u, allowed) {
		return "", false
	}
	return DefaultPath(u.Role), true
}
