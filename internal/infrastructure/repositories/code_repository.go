package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// CodeRepositoryImpl implements domain.CodeRepository using GORM
type CodeRepositoryImpl struct {
	db      *gorm.DB
	timeout time.Duration
}

// DBCode represents the database model for VerificationCode
type DBCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;size:300"`
	Code      string    `gorm:"index;size:32"`
	Kind      string    `gorm:"column:code_type;size:32"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_ts"`
	ExpiresAt time.Time `gorm:"column:expiry_ts;index"`
}

// TableName returns the table name for GORM
func (DBCode) TableName() string {
	return "codes"
}

// NewCodeRepository creates a new verification code repository
func NewCodeRepository(db *gorm.DB, timeout time.Duration) domain.CodeRepository {
	return &CodeRepositoryImpl{db: db, timeout: timeout}
}

func (r *CodeRepositoryImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create implements domain.CodeRepository
func (r *CodeRepositoryImpl) Create(ctx context.Context, code *domain.VerificationCode) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	dbCode := &DBCode{
		Email:     code.Email,
		Code:      code.Code,
		Kind:      code.Kind,
		Used:      code.Used,
		CreatedAt: code.CreatedAt,
		ExpiresAt: code.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbCode).Error; err != nil {
		return err
	}
	code.ID = dbCode.ID
	return nil
}

// Consume implements domain.CodeRepository. The conditional update is the
// single-use gate: under concurrent redemption of the same code exactly one
// caller sees RowsAffected == 1.
func (r *CodeRepositoryImpl) Consume(ctx context.Context, email, code, kind string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Model(&DBCode{}).
		Where("email = ? AND code = ? AND code_type = ? AND used = ? AND expiry_ts > ?",
			email, code, kind, false, now).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCodeInvalid
	}
	return nil
}

// Release implements domain.CodeRepository
func (r *CodeRepositoryImpl) Release(ctx context.Context, email, code, kind string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBCode{}).
		Where("email = ? AND code = ? AND code_type = ?", email, code, kind).
		Update("used", false).Error
}

// Delete implements domain.CodeRepository
func (r *CodeRepositoryImpl) Delete(ctx context.Context, email, code, kind string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND code_type = ?", email, code, kind).
		Delete(&DBCode{}).Error
}
