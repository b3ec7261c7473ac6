package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/credsvc/domain"
)

// SessionCacheImpl implements domain.SessionCache using Redis. It is a pure
// read-through cache: the session store stays authoritative, entries carry
// the session expiry so validity checks never trust the cache alone, and
// Delete is called whenever a row is removed ahead of its expiry.
type SessionCacheImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) domain.SessionCache {
	return &SessionCacheImpl{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Get implements domain.SessionCache. A miss returns (nil, nil).
func (c *SessionCacheImpl) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := c.client.Get(ctx, c.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &session, nil
}

// Set implements domain.SessionCache. The entry TTL never outlives the
// session itself.
func (c *SessionCacheImpl) Set(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := c.ttl
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return nil
	}

	return c.client.Set(ctx, c.prefix+session.Token, data, ttl).Err()
}

// Delete implements domain.SessionCache
func (c *SessionCacheImpl) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.prefix+token).Err()
}
