package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin wrapper over Redis used for short-lived response caching.
// A nil client disables caching; every method becomes a no-op miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a Cache. Pass a nil client to run without a cache.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached bytes for key, or (nil, false) on a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil is an ordinary miss; anything else degrades to a miss.
		return nil, false
	}
	return data, true
}

// Set stores value under key with the configured TTL. Errors are swallowed;
// the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if !c.Enabled() {
		return
	}
	c.rdb.Set(ctx, key, value, c.ttl)
}

// Invalidate removes a key, e.g. after the recomputation job changes the data
// behind a cached response.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
