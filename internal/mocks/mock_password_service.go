package mocks

import "context"

// MockPasswordService implements domain.PasswordService interface for testing
type MockPasswordService struct {
	HashFunc   func(ctx context.Context, password string) (string, error)
	VerifyFunc func(ctx context.Context, hashedPassword, password string) bool
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a password
func (m *MockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(ctx, password)
	}
	// Default behavior: recognisable fake hash
	return "hashed:" + password, nil
}

// Verify checks a password against a hash
func (m *MockPasswordService) Verify(ctx context.Context, hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, hashedPassword, password)
	}
	// Default behavior: matches the fake hash format
	return hashedPassword == "hashed:"+password
}
