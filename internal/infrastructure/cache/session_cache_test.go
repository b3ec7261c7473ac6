package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/you/credsvc/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() {
		mr.Close()
	})

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func testSession(token string, expiresIn time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{
		Token:     token,
		Username:  "alice",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestSessionCacheImpl_SetAndGet(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewSessionCache(client, 5*time.Minute)
	ctx := context.Background()

	session := testSession("TOKEN123", time.Hour)
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "TOKEN123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected a cache hit")
	}
	if got.Username != "alice" {
		t.Errorf("expected username alice, got %s", got.Username)
	}
	if !got.ExpiresAt.Equal(session.ExpiresAt) {
		t.Errorf("expiry drifted through the cache: %v vs %v", got.ExpiresAt, session.ExpiresAt)
	}
}

func TestSessionCacheImpl_GetMiss(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewSessionCache(client, 5*time.Minute)

	got, err := c.Get(context.Background(), "UNKNOWN")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected a miss to return nil, nil")
	}
}

func TestSessionCacheImpl_TTLCappedAtSessionExpiry(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewSessionCache(client, 5*time.Minute)
	ctx := context.Background()

	// Session expires well before the cache TTL.
	session := testSession("SHORTLIVED", 30*time.Second)
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	ttl := mr.TTL("session:SHORTLIVED")
	if ttl > 30*time.Second {
		t.Errorf("cache entry TTL %v outlives the session", ttl)
	}
}

func TestSessionCacheImpl_ExpiredSessionNotCached(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewSessionCache(client, 5*time.Minute)
	ctx := context.Background()

	session := testSession("EXPIRED", -time.Minute)
	if err := c.Set(ctx, session); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "EXPIRED")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expired session must not be cached")
	}
}

func TestSessionCacheImpl_Delete(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewSessionCache(client, 5*time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, testSession("TOKEN123", time.Hour)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "TOKEN123"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := c.Get(ctx, "TOKEN123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected entry to be gone after Delete")
	}

	// Deleting an absent entry is fine.
	if err := c.Delete(ctx, "TOKEN123"); err != nil {
		t.Fatalf("Delete of absent entry failed: %v", err)
	}
}
