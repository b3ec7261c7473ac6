package domain

import "time"

// Identity providers a user record can be registered under.
const (
	ProviderDefault = "default"
	ProviderGoogle  = "google"
)

// Auth levels, ordered from least to most privileged.
const (
	AuthLevelUnverified = "unverified"
	AuthLevelVerified   = "verified"
	AuthLevelAdmin      = "admin"
)

// Verification code kinds.
const (
	CodeKindEmailVerification = "EmailVerification"
	CodeKindPasswordReset     = "PasswordReset"
)

// User represents a user in the system. Exactly one of PasswordHash or
// Subject is set, depending on Provider.
type User struct {
	ID            uint
	Username      string
	Email         string
	PasswordHash  string
	Subject       string
	Provider      string
	AuthLevel     string
	EmailVerified bool
	FailedLogins  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Session represents an issued session token. A session is valid iff the
// current time is before ExpiresAt.
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// VerificationCode is a single-use secret proving control of an email
// address. Multiple outstanding codes of the same kind may coexist; only a
// matching, unused, unexpired one validates.
type VerificationCode struct {
	ID        uint
	Email     string
	Code      string
	Kind      string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RegistrationDetails carries a password-path registration request.
type RegistrationDetails struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// IdentityClaims are the claims extracted from a verified external identity
// token.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User    *User
	Session *Session
}
