package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/credsvc/domain"
)

// AuthServiceImpl implements domain.AuthService. It resolves which identity
// path a request belongs to and orchestrates the credential store, session
// manager, code manager and login throttle around the shared user store.
type AuthServiceImpl struct {
	userRepo         domain.UserRepository
	sessionSvc       domain.SessionService
	passwordSvc      domain.PasswordService
	codeSvc          domain.CodeService
	verifier         domain.IdentityVerifier
	maxLoginAttempts int
	googleClientID   string
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionSvc domain.SessionService,
	passwordSvc domain.PasswordService,
	codeSvc domain.CodeService,
	verifier domain.IdentityVerifier,
	maxLoginAttempts int,
	googleClientID string,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		sessionSvc:       sessionSvc,
		passwordSvc:      passwordSvc,
		codeSvc:          codeSvc,
		verifier:         verifier,
		maxLoginAttempts: maxLoginAttempts,
		googleClientID:   googleClientID,
	}
}

// Register implements domain.AuthService. All field validation happens
// before any write; uniqueness is pre-checked here and enforced again by the
// storage layer's unique indexes for concurrent registrations.
func (s *AuthServiceImpl) Register(ctx context.Context, details domain.RegistrationDetails) (*domain.User, error) {
	if err := validateEmail(details.Email); err != nil {
		return nil, err
	}
	if err := validateUsername(details.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(details.Password); err != nil {
		return nil, err
	}
	if details.Password != details.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByUsername(ctx, details.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, details.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(ctx, details.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     details.Username,
		Email:        details.Email,
		PasswordHash: hashedPassword,
		Provider:     domain.ProviderDefault,
		AuthLevel:    domain.AuthLevelUnverified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("USER_REGISTERED: username=%s email=%s provider=%s", user.Username, user.Email, user.Provider)

	// The user row stays even if the verification email cannot be sent; the
	// failure is surfaced and the caller may re-initiate verification.
	if _, err := s.codeSvc.Issue(ctx, details.Email, domain.CodeKindEmailVerification); err != nil {
		return nil, fmt.Errorf("failed to send verification email: %w", err)
	}

	return user, nil
}

// Login implements domain.AuthService. The throttle check runs before the
// password is evaluated, so a locked account rejects even the correct
// password.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if user.Provider != domain.ProviderDefault {
		return nil, domain.ErrProviderClash
	}

	if s.maxLoginAttempts > 0 && user.FailedLogins >= s.maxLoginAttempts {
		return nil, domain.ErrTooManyAttempts
	}

	if !s.passwordSvc.Verify(ctx, user.PasswordHash, password) {
		if err := s.userRepo.IncrementFailedLogins(ctx, email); err != nil {
			log.Printf("LOGIN_COUNTER_UPDATE_FAILED: email=%s error=%v", email, err)
		}
		return nil, domain.ErrUnauthorized
	}

	if user.FailedLogins > 0 {
		if err := s.userRepo.ResetFailedLogins(ctx, email); err != nil {
			log.Printf("LOGIN_COUNTER_RESET_FAILED: email=%s error=%v", email, err)
		}
	}

	session, err := s.sessionSvc.Create(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{User: user, Session: session}, nil
}

// LoginWithIDToken implements domain.AuthService. The token is verified
// against the provider's keys and the configured audience; an unknown
// subject with an unclaimed email becomes a new password-less account.
func (s *AuthServiceImpl) LoginWithIDToken(ctx context.Context, rawToken string) (*domain.AuthResult, error) {
	claims, err := s.verifier.Verify(ctx, rawToken, s.googleClientID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindBySubject(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		user, err = s.registerFederated(ctx, claims)
		if err != nil {
			return nil, err
		}
	}

	session, err := s.sessionSvc.Create(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResult{User: user, Session: session}, nil
}

// An email already claimed by another provider is a hard conflict: federated
// tokens must not take over password accounts.
func (s *AuthServiceImpl) registerFederated(ctx context.Context, claims *domain.IdentityClaims) (*domain.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, claims.Email); err == nil {
		return nil, domain.ErrProviderClash
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	authLevel := domain.AuthLevelUnverified
	if claims.EmailVerified {
		authLevel = domain.AuthLevelVerified
	}

	user := &domain.User{
		Username:      s.federatedUsername(ctx, claims),
		Email:         claims.Email,
		Subject:       claims.Subject,
		Provider:      domain.ProviderGoogle,
		AuthLevel:     authLevel,
		EmailVerified: claims.EmailVerified,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	log.Printf("USER_REGISTERED: username=%s email=%s provider=%s", user.Username, user.Email, user.Provider)
	return user, nil
}

// federatedUsername derives a unique username from the email local part,
// falling back to a subject-suffixed variant when the plain one is taken.
func (s *AuthServiceImpl) federatedUsername(ctx context.Context, claims *domain.IdentityClaims) string {
	local := claims.Email
	if at := strings.IndexByte(local, '@'); at > 0 {
		local = local[:at]
	}
	if len(local) < minUsernameLength {
		local = local + "-user"
	}
	if len(local) > maxUsernameLength {
		local = local[:maxUsernameLength]
	}

	if _, err := s.userRepo.FindByUsername(ctx, local); errors.Is(err, domain.ErrUserNotFound) {
		return local
	}

	suffix := claims.Subject
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	candidate := local + "-" + suffix
	if len(candidate) > maxUsernameLength {
		candidate = candidate[len(candidate)-maxUsernameLength:]
	}
	return candidate
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, email, code string) error {
	return s.codeSvc.Redeem(ctx, email, code, domain.CodeKindEmailVerification, func(ctx context.Context) error {
		if err := s.userRepo.MarkEmailVerified(ctx, email); err != nil {
			return fmt.Errorf("failed to mark email verified: %w", err)
		}
		log.Printf("EMAIL_VERIFIED: email=%s timestamp=%s", email, time.Now().UTC().Format(time.RFC3339))
		return nil
	})
}

// ChangePassword implements domain.AuthService. Proving the old password is
// a successful authentication, so the failed-login counter resets too.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, username, oldPassword, newPassword, confirm string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return domain.ErrPasswordMismatch
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user.Provider != domain.ProviderDefault {
		return domain.ErrProviderClash
	}

	if !s.passwordSvc.Verify(ctx, user.PasswordHash, oldPassword) {
		return domain.ErrUnauthorized
	}

	hashedPassword, err := s.passwordSvc.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.ResetPassword(ctx, user.Email, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("PASSWORD_CHANGED: username=%s timestamp=%s", username, time.Now().UTC().Format(time.RFC3339))
	return nil
}

// InitiatePasswordReset implements domain.AuthService
func (s *AuthServiceImpl) InitiatePasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Provider != domain.ProviderDefault {
		return domain.ErrProviderClash
	}

	if _, err := s.codeSvc.Issue(ctx, user.Email, domain.CodeKindPasswordReset); err != nil {
		return err
	}
	return nil
}

// CompletePasswordReset implements domain.AuthService. A completed reset
// zeroes the failed-login counter; it is the only exit from lockout.
func (s *AuthServiceImpl) CompletePasswordReset(ctx context.Context, email, code, newPassword, confirm string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return domain.ErrPasswordMismatch
	}

	return s.codeSvc.Redeem(ctx, email, code, domain.CodeKindPasswordReset, func(ctx context.Context) error {
		hashedPassword, err := s.passwordSvc.Hash(ctx, newPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.ResetPassword(ctx, email, hashedPassword); err != nil {
			return fmt.Errorf("failed to reset password: %w", err)
		}
		log.Printf("PASSWORD_RESET: email=%s timestamp=%s", email, time.Now().UTC().Format(time.RFC3339))
		return nil
	})
}

// GetProfile implements domain.AuthService
func (s *AuthServiceImpl) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}
