package domain

import "errors"

// Input validation errors
var (
	ErrInvalidEmail     = errors.New("email must contain an @, be greater than 3 characters and less than 300 characters")
	ErrInvalidPassword  = errors.New("password must be between 8 and 100 characters")
	ErrInvalidUsername  = errors.New("username must be between 3 and 100 characters")
	ErrPasswordMismatch = errors.New("your passwords do not match")
)

// Registration conflict errors
var (
	ErrEmailTaken    = errors.New("that email is already registered")
	ErrUsernameTaken = errors.New("that username is already registered")
	ErrProviderClash = errors.New("that email is registered under a different identity provider")
)

// Authentication errors
var (
	ErrUnauthorized    = errors.New("unauthorised")
	ErrTooManyAttempts = errors.New("too many login attempts, please reset your password")
	ErrUserNotFound    = errors.New("user not found")
)

// Verification code errors
var ErrCodeInvalid = errors.New("invalid or expired verification code")

// Collaborator errors
var (
	ErrIdentityToken = errors.New("identity token verification failed")
	ErrDelivery      = errors.New("email delivery failed")
)

// Error kinds surfaced to callers alongside the human-readable message.
const (
	KindInvalidInput         = "InvalidInput"
	KindConflict             = "Conflict"
	KindUnauthorized         = "Unauthorized"
	KindTooManyAttempts      = "TooManyAttempts"
	KindInvalidOrExpiredCode = "InvalidOrExpiredCode"
	KindUpstreamIdentity     = "UpstreamIdentityError"
	KindStorage              = "StorageError"
	KindDelivery             = "DeliveryError"
)

// KindOf classifies an error into one of the taxonomy kinds. Anything not
// recognised is attributed to the persistence collaborator.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrPasswordMismatch):
		return KindInvalidInput
	case errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken),
		errors.Is(err, ErrProviderClash):
		return KindConflict
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrUserNotFound):
		return KindUnauthorized
	case errors.Is(err, ErrTooManyAttempts):
		return KindTooManyAttempts
	case errors.Is(err, ErrCodeInvalid):
		return KindInvalidOrExpiredCode
	case errors.Is(err, ErrIdentityToken):
		return KindUpstreamIdentity
	case errors.Is(err, ErrDelivery):
		return KindDelivery
	default:
		return KindStorage
	}
}
