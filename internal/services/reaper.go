package services

import (
	"context"
	"log"
	"time"

	"github.com/you/credsvc/domain"
)

// SessionReaper periodically removes expired session rows. Validation
// already rejects expired tokens, so the reaper is purely housekeeping and a
// failed sweep only delays cleanup until the next tick.
type SessionReaper struct {
	sessionRepo domain.SessionRepository
	interval    time.Duration
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(sessionRepo domain.SessionRepository, interval time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{sessionRepo: sessionRepo, interval: interval}
}

// Run sweeps on a fixed ticker until ctx is cancelled. It is meant to be
// started in its own goroutine by the application container.
func (r *SessionReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep deletes all sessions whose expiry has passed.
func (r *SessionReaper) Sweep(ctx context.Context) {
	removed, err := r.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("REAPER_SWEEP_FAILED: error=%v", err)
		return
	}
	if removed > 0 {
		log.Printf("REAPER_SWEPT: removed=%d", removed)
	}
}
