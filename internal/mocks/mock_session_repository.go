package mocks

import (
	"context"
	"time"

	"github.com/you/credsvc/domain"
)

// MockSessionRepository implements domain.SessionRepository interface for testing
type MockSessionRepository struct {
	CreateFunc        func(ctx context.Context, session *domain.Session) error
	FindByTokenFunc   func(ctx context.Context, token string) (*domain.Session, error)
	DeleteFunc        func(ctx context.Context, token string) error
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create stores a session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

// FindByToken looks up a session by token
func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: unknown token
	return nil, domain.ErrUnauthorized
}

// Delete removes a session by token
func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}

// DeleteExpired removes expired sessions
func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	return 0, nil
}
