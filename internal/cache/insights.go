// Package cache provides a Redis-backed cache for computed analytics.
// Insight computations walk a habit's full checkin history, so results
// are cached for a short TTL and invalidated on new checkins.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/z3st/habits-api/internal/logger"
)

// ErrCacheMiss is returned when a key is absent from the cache.
var ErrCacheMiss = errors.New("cache: miss")

const keyPrefix = "z3st:insights"

// InsightsCache caches serialized analytics results keyed per user and
// habit. A nil *InsightsCache is valid and behaves as a no-op cache, so
// callers never need to branch on whether Redis is configured.
type InsightsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection with a ping.
func New(addr, password string, db int, ttl time.Duration) (*InsightsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &InsightsCache{client: client, ttl: ttl}, nil
}

// Key builds a cache key scoped to a user, habit, and insight kind.
// Account-level results use "account" as the habit segment.
func Key(userID, habitID, kind string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, userID, habitID, kind)
}

// Get unmarshals a cached value into dest. Returns ErrCacheMiss when
// the key is absent or the cache is disabled.
func (c *InsightsCache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrCacheMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores a value under key with the configured TTL. Errors are
// logged but not returned; a cache write failure never fails a request.
func (c *InsightsCache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Ctx(ctx).Warn("failed to marshal cache value",
			logger.String("key", key),
			logger.Err(err),
		)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Ctx(ctx).Warn("failed to write cache entry",
			logger.String("key", key),
			logger.Err(err),
		)
	}
}

// InvalidateUser drops all cached insights for a user. Called after a
// checkin lands so stale analytics are never served.
func (c *InsightsCache) InvalidateUser(ctx context.Context, userID string) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("%s:%s:*", keyPrefix, userID)
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Ctx(ctx).Warn("failed to scan cache keys for invalidation",
			logger.String("user_id", userID),
			logger.Err(err),
		)
		return
	}
	if len(keys) == 0 {
		return
	}

	if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
		logger.Ctx(ctx).Warn("failed to invalidate cache entries",
			logger.String("user_id", userID),
			logger.Err(err),
		)
	}
}

// Close releases the Redis connection.
func (c *InsightsCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
