package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/you/credsvc/domain"
)

// CodeServiceImpl implements domain.CodeService. Codes are store-backed
// single-use rows; the conditional consume in the repository is the
// single-use gate under concurrent redemption.
type CodeServiceImpl struct {
	codeRepo domain.CodeRepository
	emailSvc domain.EmailSender
	ttl      time.Duration
	length   int
	from     string
}

// NewCodeService creates a new verification code service
func NewCodeService(codeRepo domain.CodeRepository, emailSvc domain.EmailSender, ttl time.Duration, length int, from string) domain.CodeService {
	if length <= 0 {
		length = 8
	}
	return &CodeServiceImpl{
		codeRepo: codeRepo,
		emailSvc: emailSvc,
		ttl:      ttl,
		length:   length,
		from:     from,
	}
}

// Issue implements domain.CodeService. If email dispatch fails the fresh row
// is removed so unusable codes do not accumulate, and the failure is
// surfaced to the caller.
func (s *CodeServiceImpl) Issue(ctx context.Context, email, kind string) (string, error) {
	code, err := generateID(s.length)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now()
	record := &domain.VerificationCode{
		Email:     email,
		Code:      code,
		Kind:      kind,
		Used:      false,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.codeRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("failed to persist code: %w", err)
	}

	subject, body := emailContent(kind, code)
	if err := s.emailSvc.Send(email, s.from, subject, body); err != nil {
		if delErr := s.codeRepo.Delete(ctx, email, code, kind); delErr != nil {
			log.Printf("CODE_CLEANUP_FAILED: email=%s kind=%s error=%v", email, kind, delErr)
		}
		return "", err
	}

	return code, nil
}

// Redeem implements domain.CodeService. Consume happens first so concurrent
// redemptions of the same code succeed at most once; if the effect fails the
// code is released back to usable rather than lost.
func (s *CodeServiceImpl) Redeem(ctx context.Context, email, code, kind string, apply func(context.Context) error) error {
	if err := s.codeRepo.Consume(ctx, email, code, kind, time.Now()); err != nil {
		return err
	}

	if err := apply(ctx); err != nil {
		if relErr := s.codeRepo.Release(ctx, email, code, kind); relErr != nil {
			log.Printf("CODE_RELEASE_FAILED: email=%s kind=%s error=%v", email, kind, relErr)
		}
		return err
	}

	return nil
}

func emailContent(kind, code string) (subject, body string) {
	switch kind {
	case domain.CodeKindPasswordReset:
		return "Password Reset", fmt.Sprintf(
			"<p>A password reset was requested for your account.</p> "+
				"<p>Use this code to reset your password: %s</p> "+
				"<p>If you did not request this, please ignore this email.</p>", code)
	default:
		return "Verify your email", fmt.Sprintf(
			"<p>Thank you for registering.</p> "+
				"<p>Please verify your email using the following code %s.</p>", code)
	}
}
