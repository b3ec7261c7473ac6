package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc              func(ctx context.Context, details domain.RegistrationDetails) (*domain.User, error)
	LoginFunc                 func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LoginWithIDTokenFunc      func(ctx context.Context, rawToken string) (*domain.AuthResult, error)
	VerifyEmailFunc           func(ctx context.Context, email, code string) error
	ChangePasswordFunc        func(ctx context.Context, username, oldPassword, newPassword, confirm string) error
	InitiatePasswordResetFunc func(ctx context.Context, email string) error
	CompletePasswordResetFunc func(ctx context.Context, email, code, newPassword, confirm string) error
	GetProfileFunc            func(ctx context.Context, username string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, details domain.RegistrationDetails) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, details)
	}
	return &domain.User{Username: details.Username, Email: details.Email}, nil
}

// Login authenticates by email and password
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrUnauthorized
}

// LoginWithIDToken authenticates by federated ID token
func (m *MockAuthService) LoginWithIDToken(ctx context.Context, rawToken string) (*domain.AuthResult, error) {
	if m.LoginWithIDTokenFunc != nil {
		return m.LoginWithIDTokenFunc(ctx, rawToken)
	}
	return nil, domain.ErrIdentityToken
}

// VerifyEmail redeems an email verification code
func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, email, code)
	}
	return nil
}

// ChangePassword changes an authenticated account's password
func (m *MockAuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, username, oldPassword, newPassword, confirm)
	}
	return nil
}

// InitiatePasswordReset starts the reset flow
func (m *MockAuthService) InitiatePasswordReset(ctx context.Context, email string) error {
	if m.InitiatePasswordResetFunc != nil {
		return m.InitiatePasswordResetFunc(ctx, email)
	}
	return nil
}

// CompletePasswordReset redeems a reset code with a new password
func (m *MockAuthService) CompletePasswordReset(ctx context.Context, email, code, newPassword, confirm string) error {
	if m.CompletePasswordResetFunc != nil {
		return m.CompletePasswordResetFunc(ctx, email, code, newPassword, confirm)
	}
	return nil
}

// GetProfile returns the account profile
func (m *MockAuthService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, username)
	}
	return &domain.User{Username: username}, nil
}
