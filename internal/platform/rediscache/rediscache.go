// Package rediscache implements the TTL'd key-value cache contract on Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/filedepot/filedepot-api/internal/config"
)

// Cache wraps a Redis client behind the narrow get/set-with-TTL/delete
// contract the session store depends on.
type Cache struct {
	client *redis.Client
}

// New creates a Cache connected to the configured Redis instance.
func New(cfg config.CacheConfig) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	})
	return &Cache{client: client}
}

// Get returns the value stored under key. The second return value is false
// when the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with the given time to live. Expiry is
// enforced by Redis; the caller never re-checks it.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Del removes key. Deleting an absent key is a no-op.
func (c *Cache) Del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache del %q: %w", key, err)
	}
	return nil
}

// Ping probes the server for liveness, satisfying ready.Pinger.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
