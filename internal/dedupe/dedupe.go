// Package dedupe provides event idempotency tracking. Upstream feeds may
// redeliver image events; processing the same event id twice is harmless for
// the reconciliation engine but wasteful, so deliveries are best-effort
// deduplicated before the service runs.
package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache tracks which event ids have already been processed.
type Cache interface {
	// MarkSeen records the event id and reports whether it had been seen
	// before within the retention window.
	MarkSeen(ctx context.Context, eventID string) (bool, error)
}

// RedisCache is a Redis-backed Cache, suitable when several instances share
// an inbound feed.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache with the given retention.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// MarkSeen implements Cache using SETNX semantics: the first caller to set
// the key owns the event.
func (c *RedisCache) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	created, err := c.client.SetNX(ctx, "mediasync:event:"+eventID, 1, c.ttl).Result()
	if err != nil {
		return false, err
	}
	return !created, nil
}

// MemoryCache is an in-process Cache used in tests and single-instance
// deployments without Redis.
type MemoryCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

// NewMemoryCache creates an in-memory cache with the given retention.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{seen: make(map[string]time.Time), ttl: ttl}
}

// MarkSeen implements Cache. Expired entries are pruned lazily.
func (c *MemoryCache) MarkSeen(_ context.Context, eventID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if expiry, ok := c.seen[eventID]; ok && now.Before(expiry) {
		return true, nil
	}

	for id, expiry := range c.seen {
		if now.After(expiry) {
			delete(c.seen, id)
		}
	}

	c.seen[eventID] = now.Add(c.ttl)
	return false, nil
}

// Disabled is a Cache that never deduplicates.
type Disabled struct{}

// MarkSeen always reports unseen.
func (Disabled) MarkSeen(context.Context, string) (bool, error) { return false, nil }
