// Package cache keeps short-lived copies of public creator stats.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache stores serialized stats per creator. Failures are logged and
// reported as misses so callers fall through to the database.
type StatsCache interface {
	Get(ctx context.Context, creatorID string) ([]byte, bool)
	Set(ctx context.Context, creatorID string, value []byte)
	Invalidate(ctx context.Context, creatorID string)
}

func statsKey(creatorID string) string {
	return "stats:creator:" + creatorID
}

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStatsCache returns a Redis-backed cache, or a no-op one when client is nil.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) StatsCache {
	if client == nil {
		return Noop{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisStatsCache) Get(ctx context.Context, creatorID string) ([]byte, bool) {
	b, err := c.client.Get(ctx, statsKey(creatorID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("stats cache read failed", "creator_id", creatorID, "error", err)
		}
		return nil, false
	}
	return b, true
}

func (c *RedisStatsCache) Set(ctx context.Context, creatorID string, value []byte) {
	if err := c.client.Set(ctx, statsKey(creatorID), value, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", "creator_id", creatorID, "error", err)
	}
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, creatorID string) {
	if err := c.client.Del(ctx, statsKey(creatorID)).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", "creator_id", creatorID, "error", err)
	}
}

type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte)        {}
func (Noop) Invalidate(context.Context, string)         {}
