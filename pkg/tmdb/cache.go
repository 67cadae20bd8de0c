package tmdb

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores raw metadata responses. Failures are misses, never errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool)              { return nil, false }
func (noopCache) Set(context.Context, string, []byte, time.Duration) {}

const cacheKeyPrefix = "watchly:tmdb:"

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("tmdb cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, value, ttl).Err(); err != nil {
		slog.Warn("tmdb cache write failed", "key", key, "error", err)
	}
}
