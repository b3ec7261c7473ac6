package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
	}{
		{"invalid email", ErrInvalidEmail, KindInvalidInput},
		{"invalid password", ErrInvalidPassword, KindInvalidInput},
		{"invalid username", ErrInvalidUsername, KindInvalidInput},
		{"password mismatch", ErrPasswordMismatch, KindInvalidInput},
		{"email taken", ErrEmailTaken, KindConflict},
		{"username taken", ErrUsernameTaken, KindConflict},
		{"provider clash", ErrProviderClash, KindConflict},
		{"unauthorized", ErrUnauthorized, KindUnauthorized},
		{"user not found", ErrUserNotFound, KindUnauthorized},
		{"too many attempts", ErrTooManyAttempts, KindTooManyAttempts},
		{"code invalid", ErrCodeInvalid, KindInvalidOrExpiredCode},
		{"identity token", ErrIdentityToken, KindUpstreamIdentity},
		{"delivery", ErrDelivery, KindDelivery},
		{"unknown error", errors.New("connection refused"), KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf(%v) = %s, want %s", tt.err, got, tt.kind)
			}
		})
	}
}

func TestKindOfWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("completing reset: %w", ErrCodeInvalid)
	if got := KindOf(wrapped); got != KindInvalidOrExpiredCode {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, KindInvalidOrExpiredCode)
	}
}
