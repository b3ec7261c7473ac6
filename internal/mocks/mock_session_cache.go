package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockSessionCache implements domain.SessionCache interface for testing
type MockSessionCache struct {
	GetFunc    func(ctx context.Context, token string) (*domain.Session, error)
	SetFunc    func(ctx context.Context, session *domain.Session) error
	DeleteFunc func(ctx context.Context, token string) error
}

// NewMockSessionCache creates a new MockSessionCache with default behaviors
func NewMockSessionCache() *MockSessionCache {
	return &MockSessionCache{}
}

// Get looks up a cached session
func (m *MockSessionCache) Get(ctx context.Context, token string) (*domain.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, token)
	}
	// Default behavior: cache miss
	return nil, nil
}

// Set caches a session
func (m *MockSessionCache) Set(ctx context.Context, session *domain.Session) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, session)
	}
	return nil
}

// Delete evicts a cached session
func (m *MockSessionCache) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	return nil
}
