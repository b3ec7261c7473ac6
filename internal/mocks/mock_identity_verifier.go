package mocks

import (
	"context"

	"github.com/you/credsvc/domain"
)

// MockIdentityVerifier implements domain.IdentityVerifier interface for testing
type MockIdentityVerifier struct {
	VerifyFunc func(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error)
}

// NewMockIdentityVerifier creates a new MockIdentityVerifier with default behaviors
func NewMockIdentityVerifier() *MockIdentityVerifier {
	return &MockIdentityVerifier{}
}

// Verify checks an identity token
func (m *MockIdentityVerifier) Verify(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, rawToken, audience)
	}
	// Default behavior: rejected token
	return nil, domain.ErrIdentityToken
}
