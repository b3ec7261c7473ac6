package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *domain.User) error
	FindByEmailFunc           func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameFunc        func(ctx context.Context, username string) (*domain.User, error)
	FindBySubjectFunc         func(ctx context.Context, subject string) (*domain.User, error)
	SetPasswordFunc           func(ctx context.Context, email, hashedPassword string) error
	ResetPasswordFunc         func(ctx context.Context, email, hashedPassword string) error
	MarkEmailVerifiedFunc     func(ctx context.Context, email string) error
	IncrementFailedLoginsFunc func(ctx context.Context, email string) error
	ResetFailedLoginsFunc     func(ctx context.Context, email string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByUsername finds a user by username
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindBySubject finds a federated user by provider subject
func (m *MockUserRepository) FindBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if m.FindBySubjectFunc != nil {
		return m.FindBySubjectFunc(ctx, subject)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// SetPassword updates the password hash
func (m *MockUserRepository) SetPassword(ctx context.Context, email, hashedPassword string) error {
	if m.SetPasswordFunc != nil {
		return m.SetPasswordFunc(ctx, email, hashedPassword)
	}
	return nil
}

// ResetPassword updates the password hash and zeroes the failed-login counter
func (m *MockUserRepository) ResetPassword(ctx context.Context, email, hashedPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, hashedPassword)
	}
	return nil
}

// MarkEmailVerified flags the email as verified and promotes the auth level
func (m *MockUserRepository) MarkEmailVerified(ctx context.Context, email string) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, email)
	}
	return nil
}

// IncrementFailedLogins bumps the failed-login counter
func (m *MockUserRepository) IncrementFailedLogins(ctx context.Context, email string) error {
	if m.IncrementFailedLoginsFunc != nil {
		return m.IncrementFailedLoginsFunc(ctx, email)
	}
	return nil
}

// ResetFailedLogins zeroes the failed-login counter
func (m *MockUserRepository) ResetFailedLogins(ctx context.Context, email string) error {
	if m.ResetFailedLoginsFunc != nil {
		return m.ResetFailedLoginsFunc(ctx, email)
	}
	return nil
}
