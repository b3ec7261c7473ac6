package mocks

import "context"

// MockCodeService implements domain.CodeService interface for testing
type MockCodeService struct {
	IssueFunc  func(ctx context.Context, email, kind string) (string, error)
	RedeemFunc func(ctx context.Context, email, code, kind string, apply func(context.Context) error) error
}

// NewMockCodeService creates a new MockCodeService with default behaviors
func NewMockCodeService() *MockCodeService {
	return &MockCodeService{}
}

// Issue generates and delivers a verification code
func (m *MockCodeService) Issue(ctx context.Context, email, kind string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email, kind)
	}
	// Default behavior: fixed code
	return "TESTCODE", nil
}

// Redeem consumes a code and applies the effect
func (m *MockCodeService) Redeem(ctx context.Context, email, code, kind string, apply func(context.Context) error) error {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, email, code, kind, apply)
	}
	// Default behavior: code accepted, effect applied
	return apply(ctx)
}
