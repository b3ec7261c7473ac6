package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/you/credsvc/domain"
)

// SessionServiceImpl implements domain.SessionService. Sessions are opaque
// random tokens backed by the session store; the cache in front of it is
// optional and never authoritative for anything but a faster lookup.
type SessionServiceImpl struct {
	sessionRepo domain.SessionRepository
	cache       domain.SessionCache
	lifetime    time.Duration
	tokenLen    int
}

// NewSessionService creates a new session service. cache may be nil.
func NewSessionService(sessionRepo domain.SessionRepository, cache domain.SessionCache, lifetime time.Duration, tokenLen int) domain.SessionService {
	if tokenLen <= 0 {
		tokenLen = 100
	}
	return &SessionServiceImpl{
		sessionRepo: sessionRepo,
		cache:       cache,
		lifetime:    lifetime,
		tokenLen:    tokenLen,
	}
}

// Create implements domain.SessionService
func (s *SessionServiceImpl) Create(ctx context.Context, username string) (*domain.Session, error) {
	token, err := generateID(s.tokenLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		Token:     token,
		Username:  username,
		ExpiresAt: now.Add(s.lifetime),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, session); err != nil {
			log.Printf("SESSION_CACHE_SET_FAILED: error=%v", err)
		}
	}

	return session, nil
}

// Validate implements domain.SessionService. Absent and expired tokens both
// fail with the same ErrUnauthorized.
func (s *SessionServiceImpl) Validate(ctx context.Context, token string) (string, error) {
	session, err := s.lookup(ctx, token)
	if err != nil {
		return "", err
	}
	if !time.Now().Before(session.ExpiresAt) {
		return "", domain.ErrUnauthorized
	}
	return session.Username, nil
}

func (s *SessionServiceImpl) lookup(ctx context.Context, token string) (*domain.Session, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, token)
		if err != nil {
			log.Printf("SESSION_CACHE_GET_FAILED: error=%v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, session); err != nil {
			log.Printf("SESSION_CACHE_SET_FAILED: error=%v", err)
		}
	}
	return session, nil
}

// Invalidate implements domain.SessionService. The cache entry goes first so
// a stale hit cannot outlive the row.
func (s *SessionServiceImpl) Invalidate(ctx context.Context, token string) error {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, token); err != nil {
			log.Printf("SESSION_CACHE_DELETE_FAILED: error=%v", err)
		}
	}
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
