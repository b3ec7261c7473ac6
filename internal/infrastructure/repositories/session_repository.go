package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions live in the relational store so the reaper can sweep expired
// rows; validity is still checked by the caller against ExpiresAt.
type SessionRepositoryImpl struct {
	db      *gorm.DB
	timeout time.Duration
}

// DBSession represents the database model for Session
type DBSession struct {
	Token     string    `gorm:"primaryKey;size:128"`
	Username  string    `gorm:"index;size:100"`
	ExpiresAt time.Time `gorm:"column:expiry;index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB, timeout time.Duration) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db, timeout: timeout}
}

func (r *SessionRepositoryImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	dbSession := &DBSession{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(dbSession).Error
}

// FindByToken implements domain.SessionRepository. An absent token is
// reported as ErrUnauthorized; the caller cannot distinguish it from an
// expired one.
func (r *SessionRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&dbSession).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return &domain.Session{
		Token:     dbSession.Token,
		Username:  dbSession.Username,
		ExpiresAt: dbSession.ExpiresAt,
		CreatedAt: dbSession.CreatedAt,
	}, nil
}

// Delete implements domain.SessionRepository. Deleting an absent token is
// not an error; each deletion is idempotent.
func (r *SessionRepositoryImpl) Delete(ctx context.Context, token string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Where("token = ?", token).Delete(&DBSession{}).Error
}

// DeleteExpired implements domain.SessionRepository
func (r *SessionRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Where("expiry <= ?", now).Delete(&DBSession{})
	return result.RowsAffected, result.Error
}
