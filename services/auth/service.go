package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tech-arch1tect/accountd/roles"
	"github.com/tech-arch1tect/accountd/services/device"
	"github.com/tech-arch1tect/accountd/services/logging"
	"github.com/tech-arch1tect/accountd/services/token"
	"github.com/tech-arch1tect/accountd/services/user"
	"github.com/tech-arch1tect/accountd/session"
	"go.uber.org/zap"
)

var (
	// ErrReuseDetected means a structurally valid refresh token pointed at
	// a jti with no live session: either the token was already rotated or
	// revoked, or a concurrent refresh won the race. The two cases are
	// indistinguishable on purpose; both warrant forcing re-authentication.
	ErrReuseDetected = errors.New("refresh token reuse detected")

	// ErrSessionExpired means the session existed but its expiry passed.
	ErrSessionExpired = errors.New("session expired")
)

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	JTI              string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// SessionInfo is a session row enriched for the active-sessions UI.
type SessionInfo struct {
	session.Session
	Device device.Info `json:"device"`
}

// Service orchestrates the refresh-token lineage state machine:
// Issued -> Active -> {Rotated | Revoked | Expired}. Rotation spawns a new
// Active jti; the other two are terminal for that jti.
type Service struct {
	tokens   *token.Service
	sessions session.Store
	users    *user.Service
	logger   *logging.Service
}

func NewService(tokens *token.Service, sessions session.Store, users *user.Service, logger *logging.Service) *Service {
	return &Service{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// Login authenticates the credentials and starts a brand-new session.
// Existing sessions for the same device are never reused or merged;
// concurrent sessions per user are allowed.
func (s *Service) Login(ctx context.Context, username, password string, meta device.Meta) (*user.User, *TokenPair, error) {
	u, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.StartSession(ctx, u.ID, u.Role, meta)
	if err != nil {
		return nil, nil, err
	}

	return u, pair, nil
}

// StartSession issues an access+refresh pair and persists a session keyed
// by the refresh token's jti.
func (s *Service) StartSession(ctx context.Context, userID uint, role roles.Role, meta device.Meta) (*TokenPair, error) {
	accessToken, accessExpiry, err := s.tokens.IssueAccessToken(userID, role)
	if err != nil {
		return nil, err
	}

	refreshToken, jti, refreshExpiry, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}

	sess := session.Session{
		JTI:         jti,
		UserID:      userID,
		Fingerprint: meta.Fingerprint,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
		ExpiresAt:   refreshExpiry,
	}

	if err := s.sessions.Create(ctx, &sess); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err), zap.Uint("user_id", userID))
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("session started",
		zap.Uint("user_id", userID),
		zap.String("jti", jti),
		zap.Time("expires_at", refreshExpiry))

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		JTI:              jti,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Refresh rotates a refresh token: the presented jti is retired and a new
// session takes over the lineage. Exactly one rotation can succeed per
// jti; the store's compare-and-delete decides the winner when calls race.
func (s *Service) Refresh(ctx context.Context, refreshToken string, meta device.Meta) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.FindByJTI(ctx, claims.JTI)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.logger.Warn("refresh token reuse detected",
				zap.Uint("user_id", claims.UserID),
				zap.String("jti", claims.JTI))
			return nil, ErrReuseDetected
		}
		return nil, err
	}

	if sess.Expired(time.Now()) {
		if _, err := s.sessions.DeleteByJTI(ctx, claims.JTI); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err), zap.String("jti", claims.JTI))
		}
		return nil, ErrSessionExpired
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, user.ErrAccountDisabled
	}

	// Only the caller that actually removes the row may rotate. A racing
	// refresh observes the jti as already gone and reports reuse, the same
	// outcome a stolen retired token produces.
	deleted, err := s.sessions.DeleteByJTI(ctx, claims.JTI)
	if err != nil {
		return nil, err
	}
	if !deleted {
		s.logger.Warn("refresh lost rotation race",
			zap.Uint("user_id", claims.UserID),
			zap.String("jti", claims.JTI))
		return nil, ErrReuseDetected
	}

	pair, err := s.StartSession(ctx, u.ID, u.Role, meta)
	if err != nil {
		// The old session is gone and no replacement exists. Surface a hard
		// error so the client performs a full re-login instead of retrying
		// against an orphaned lineage.
		s.logger.Error("rotation failed after retiring old session",
			zap.Error(err),
			zap.Uint("user_id", claims.UserID),
			zap.String("old_jti", claims.JTI))
		return nil, fmt.Errorf("refresh rotation failed: %w", err)
	}

	s.logger.Info("refresh token rotated",
		zap.Uint("user_id", claims.UserID),
		zap.String("old_jti", claims.JTI),
		zap.String("new_jti", pair.JTI))

	return pair, nil
}

// Logout retires the session behind a refresh token. It is idempotent and
// never fails the caller: clearing client-side cookies proceeds regardless
// of server-side token validity, so internal errors are logged and
// swallowed.
func (s *Service) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("logout with unusable refresh token")
		return
	}

	deleted, err := s.sessions.DeleteByJTI(ctx, claims.JTI)
	if err != nil {
		s.logger.Error("failed to delete session on logout",
			zap.Error(err),
			zap.String("jti", claims.JTI))
		return
	}

	if deleted {
		s.logger.Info("session ended",
			zap.Uint("user_id", claims.UserID),
			zap.String("jti", claims.JTI))
	}
}

// RevokeAllSessions is the "log out everywhere" operation.
func (s *Service) RevokeAllSessions(ctx context.Context, userID uint) (int64, error) {
	return s.sessions.DeleteByUser(ctx, userID)
}

// Sessions lists a user's live sessions with device descriptions, flagging
// the one behind the caller's own refresh token.
func (s *Service) Sessions(ctx context.Context, userID uint, currentJTI string) ([]SessionInfo, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Current = sess.JTI == currentJTI
		infos = append(infos, SessionInfo{
			Session: sess,
			Device:  device.Describe(sess.UserAgent),
		})
	}

	return infos, nil
}
