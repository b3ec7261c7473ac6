package mocks

import (
	"context"
	"time"

	"github.com/you/credsvc/domain"
)

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	CreateFunc     func(ctx context.Context, username string) (*domain.Session, error)
	ValidateFunc   func(ctx context.Context, token string) (string, error)
	InvalidateFunc func(ctx context.Context, token string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Create issues a session for the username
func (m *MockSessionService) Create(ctx context.Context, username string) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, username)
	}
	// Default behavior: fixed token
	return &domain.Session{
		Token:     "TESTTOKEN",
		Username:  username,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}, nil
}

// Validate resolves a token to its username
func (m *MockSessionService) Validate(ctx context.Context, token string) (string, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, token)
	}
	// Default behavior: unknown token
	return "", domain.ErrUnauthorized
}

// Invalidate revokes a session
func (m *MockSessionService) Invalidate(ctx context.Context, token string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, token)
	}
	return nil
}
