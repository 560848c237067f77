package session

import (
	"context"
	"errors"
	"time"

	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrConflict = errors.New("session already exists")
	ErrNotFound = errors.New("session not found")
)

type gormStore struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewStore(db *gorm.DB, logger *logging.Service) Store {
	return &gormStore{
		db:     db,
		logger: logger,
	}
}

func (s *gormStore) Create(ctx context.Context, sess *Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}

	err := s.db.WithContext(ctx).Create(sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Error("session jti collision", zap.String("jti", sess.JTI))
			return ErrConflict
		}
		return err
	}

	return nil
}

func (s *gormStore) FindByJTI(ctx context.Context, jti string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("jti = ?", jti).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &sess, nil
}

func (s *gormStore) DeleteByJTI(ctx context.Context, jti string) (bool, error) {
	result := s.db.WithContext(ctx).Where("jti = ?", jti).Delete(&Session{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) ListByUser(ctx context.Context, userID uint) ([]Session, error) {
	var sessions []Session
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *gormStore) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{})
	if result.Error != nil {
		return 0, result.Error
	}

	s.logger.Info("revoked all sessions for user",
		zap.Uint("user_id", userID),
		zap.Int64("count", result.RowsAffected))

	return result.RowsAffected, nil
}

func (s *gormStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
