package mocks

import (
	"context"
	"time"

	"github.com/you/credsvc/domain"
)

// MockCodeRepository implements domain.CodeRepository interface for testing
type MockCodeRepository struct {
	CreateFunc  func(ctx context.Context, code *domain.VerificationCode) error
	ConsumeFunc func(ctx context.Context, email, code, kind string, now time.Time) error
	ReleaseFunc func(ctx context.Context, email, code, kind string) error
	DeleteFunc  func(ctx context.Context, email, code, kind string) error
}

// NewMockCodeRepository creates a new MockCodeRepository with default behaviors
func NewMockCodeRepository() *MockCodeRepository {
	return &MockCodeRepository{}
}

// Create stores a verification code
func (m *MockCodeRepository) Create(ctx context.Context, code *domain.VerificationCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	return nil
}

// Consume marks a matching unexpired code as used
func (m *MockCodeRepository) Consume(ctx context.Context, email, code, kind string, now time.Time) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, code, kind, now)
	}
	return nil
}

// Release returns a consumed code to the unused state
func (m *MockCodeRepository) Release(ctx context.Context, email, code, kind string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, email, code, kind)
	}
	return nil
}

// Delete removes a code row
func (m *MockCodeRepository) Delete(ctx context.Context, email, code, kind string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, email, code, kind)
	}
	return nil
}
