package cache

import (
	"context"
	"time"

	rediscommon "github.com/playforge/studio/common/redis"
)

// RedisCache implements Cache on top of the shared Redis client so that
// cached listings are consistent across service instances.
type RedisCache struct {
	client *rediscommon.Client
}

// NewRedisCache creates a Redis-backed cache
func NewRedisCache(client *rediscommon.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := c.client.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	return []byte(val), true, nil
}

// Set stores a value in cache with TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.SetWithExpiry(ctx, key, string(value), ttl)
}

// Delete removes a value from cache
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Delete(ctx, key)
}

// DeleteByPrefix removes all values whose key starts with prefix
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.client.DeleteByPrefix(ctx, prefix)
}

// Close is a no-op; the shared Redis client owns the connection.
func (c *RedisCache) Close() error {
	return nil
}
