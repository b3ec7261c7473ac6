package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Uniqueness of username
// and email is enforced by the storage layer; counter updates are atomic.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindBySubject(ctx context.Context, subject string) (*User, error)
	SetPassword(ctx context.Context, email, hashedPassword string) error
	// ResetPassword sets a new password hash and zeroes the failed-login
	// counter in a single statement.
	ResetPassword(ctx context.Context, email, hashedPassword string) error
	MarkEmailVerified(ctx context.Context, email string) error
	IncrementFailedLogins(ctx context.Context, email string) error
	ResetFailedLogins(ctx context.Context, email string) error
}

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes every session whose expiry is at or before now
	// and reports how many rows were swept.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CodeRepository defines verification code data access operations.
type CodeRepository interface {
	Create(ctx context.Context, code *VerificationCode) error
	// Consume atomically flips used from false to true for a matching,
	// unexpired code. It returns ErrCodeInvalid when no row matches, which
	// covers absent, already-used and expired codes alike.
	Consume(ctx context.Context, email, code, kind string, now time.Time) error
	// Release returns a consumed code to the unused state so a failed
	// redemption effect can be retried.
	Release(ctx context.Context, email, code, kind string) error
	Delete(ctx context.Context, email, code, kind string) error
}

// SessionCache is an optional read-through cache in front of the session
// store. A miss returns (nil, nil). Delete must be called whenever the
// backing row is removed ahead of its expiry.
type SessionCache interface {
	Get(ctx context.Context, token string) (*Session, error)
	Set(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token string) error
}

// PasswordService defines credential hashing operations. Verify treats
// malformed hash input as a non-match and never errors.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, hashedPassword, password string) bool
}

// SessionService defines session issuance and validation.
type SessionService interface {
	Create(ctx context.Context, username string) (*Session, error)
	// Validate resolves a token to its username. Absent and expired tokens
	// both fail with ErrUnauthorized.
	Validate(ctx context.Context, token string) (string, error)
	Invalidate(ctx context.Context, token string) error
}

// CodeService defines verification code issuance and redemption.
type CodeService interface {
	Issue(ctx context.Context, email, kind string) (string, error)
	// Redeem consumes the code and then applies the kind-specific effect.
	// If the effect fails the code is released back to usable.
	Redeem(ctx context.Context, email, code, kind string, apply func(context.Context) error) error
}

// AuthService defines the request-level authentication operations exposed to
// the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, details RegistrationDetails) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	LoginWithIDToken(ctx context.Context, rawToken string) (*AuthResult, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error
	InitiatePasswordReset(ctx context.Context, email string) error
	CompletePasswordReset(ctx context.Context, email, code, newPassword, confirm string) error
	GetProfile(ctx context.Context, username string) (*User, error)
}

// EmailSender defines the email collaborator. A single attempt per call, no
// retries.
type EmailSender interface {
	Send(to, from, subject, body string) error
}

// IdentityVerifier verifies an externally-issued identity token against the
// provider's public keys and the expected audience.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken, audience string) (*IdentityClaims, error)
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
	SeedDefaults() error
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
