package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db      *gorm.DB
	timeout time.Duration
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID            uint      `gorm:"primaryKey"`
	Username      string    `gorm:"uniqueIndex;size:100"`
	Email         string    `gorm:"uniqueIndex;size:300"`
	PasswordHash  string    `gorm:"column:hashed_password;size:256"`
	Subject       string    `gorm:"index;size:255"`
	Provider      string    `gorm:"index;size:32"`
	AuthLevel     string    `gorm:"size:32"`
	EmailVerified bool      `gorm:""`
	FailedLogins  int       `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, timeout time.Duration) domain.UserRepository {
	return &UserRepositoryImpl{db: db, timeout: timeout}
}

func (r *UserRepositoryImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create implements domain.UserRepository. Duplicate username or email
// surfaces as ErrUsernameTaken / ErrEmailTaken via the unique indexes.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindBySubject implements domain.UserRepository
func (r *UserRepositoryImpl) FindBySubject(ctx context.Context, subject string) (*domain.User, error) {
	return r.findOne(ctx, "subject = ? AND provider = ?", subject, domain.ProviderGoogle)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, args...).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// SetPassword implements domain.UserRepository
func (r *UserRepositoryImpl) SetPassword(ctx context.Context, email, hashedPassword string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("email = ?", email).
		Update("hashed_password", hashedPassword).Error
}

// ResetPassword implements domain.UserRepository. The new hash and the
// zeroed counter land in one statement.
func (r *UserRepositoryImpl) ResetPassword(ctx context.Context, email, hashedPassword string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"hashed_password": hashedPassword,
			"failed_logins":   0,
		}).Error
}

// MarkEmailVerified implements domain.UserRepository. Admin accounts keep
// their level.
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, email string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("email = ? AND auth_level <> ?", email, domain.AuthLevelAdmin).
		Updates(map[string]interface{}{
			"email_verified": true,
			"auth_level":     domain.AuthLevelVerified,
		}).Error
}

// IncrementFailedLogins implements domain.UserRepository
func (r *UserRepositoryImpl) IncrementFailedLogins(ctx context.Context, email string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("email = ?", email).
		Update("failed_logins", gorm.Expr("failed_logins + 1")).Error
}

// ResetFailedLogins implements domain.UserRepository
func (r *UserRepositoryImpl) ResetFailedLogins(ctx context.Context, email string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Model(&DBUser{}).
		Where("email = ?", email).
		Update("failed_logins", 0).Error
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		Subject:       user.Subject,
		Provider:      user.Provider,
		AuthLevel:     user.AuthLevel,
		EmailVerified: user.EmailVerified,
		FailedLogins:  user.FailedLogins,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:            dbUser.ID,
		Username:      dbUser.Username,
		Email:         dbUser.Email,
		PasswordHash:  dbUser.PasswordHash,
		Subject:       dbUser.Subject,
		Provider:      dbUser.Provider,
		AuthLevel:     dbUser.AuthLevel,
		EmailVerified: dbUser.EmailVerified,
		FailedLogins:  dbUser.FailedLogins,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}
}
