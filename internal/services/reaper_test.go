package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/credsvc/internal/mocks"
)

func TestSessionReaper_Sweep(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	var sweepBound time.Time
	sessionRepo.DeleteExpiredFunc = func(ctx context.Context, now time.Time) (int64, error) {
		sweepBound = now
		return 3, nil
	}

	reaper := NewSessionReaper(sessionRepo, time.Minute)
	reaper.Sweep(context.Background())

	if sweepBound.IsZero() {
		t.Fatal("expected DeleteExpired to be called")
	}
	if time.Since(sweepBound) > time.Second {
		t.Errorf("sweep bound %v is not close to now", sweepBound)
	}
}

func TestSessionReaper_SweepFailureIsNonFatal(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.DeleteExpiredFunc = func(ctx context.Context, now time.Time) (int64, error) {
		return 0, errors.New("db down")
	}

	reaper := NewSessionReaper(sessionRepo, time.Minute)
	// Must not panic; the failure only delays cleanup to the next tick.
	reaper.Sweep(context.Background())
}

func TestSessionReaper_RunStopsOnCancel(t *testing.T) {
	sessionRepo := mocks.NewMockSessionRepository()
	swept := make(chan struct{}, 16)
	sessionRepo.DeleteExpiredFunc = func(ctx context.Context, now time.Time) (int64, error) {
		select {
		case swept <- struct{}{}:
		default:
		}
		return 0, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	reaper := NewSessionReaper(sessionRepo, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		reaper.Run(ctx)
		close(done)
	}()

	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("reaper never swept")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop on cancel")
	}
}
