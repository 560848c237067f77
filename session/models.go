package session

import (
	"context"
	"time"
)

// Session is the server-side record backing one refresh-token lineage
// instance. The jti is the join key between the refresh token and this
// row; at most one live row exists per jti and a jti is single-use for
// refresh purposes.
type Session struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	JTI         string    `json:"jti" gorm:"uniqueIndex;size:64;not null"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	Fingerprint string    `json:"fingerprint" gorm:"size:64"`
	IPAddress   string    `json:"ip_address" gorm:"size:45"`
	UserAgent   string    `json:"user_agent" gorm:"size:500"`
	Current     bool      `json:"current" gorm:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Store owns Session records. Expired rows stay physically stored until
// the janitor sweeps them; ListByUser hides them, FindByJTI returns them
// so the refresh path can tell expiry apart from reuse.
type Store interface {
	// Create inserts a new session, failing with ErrConflict if the jti
	// already exists.
	Create(ctx context.Context, s *Session) error

	// FindByJTI returns the session for a jti, or ErrNotFound. The result
	// may be past its expiry; callers must treat an expired session as
	// absent and may delete it at use time.
	FindByJTI(ctx context.Context, jti string) (*Session, error)

	// DeleteByJTI removes a session and reports whether a row was actually
	// deleted. Deleting an absent jti is not an error; the boolean is the
	// compare-and-delete primitive the refresh path serializes on.
	DeleteByJTI(ctx context.Context, jti string) (bool, error)

	// ListByUser returns the user's live sessions, newest first.
	ListByUser(ctx context.Context, userID uint) ([]Session, error)

	// DeleteByUser removes every session for a user and returns the count.
	DeleteByUser(ctx context.Context, userID uint) (int64, error)

	// DeleteExpired sweeps rows past their expiry.
	DeleteExpired(ctx context.Context) (int64, error)
}
