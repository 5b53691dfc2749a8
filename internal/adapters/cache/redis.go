package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "readiness:triage:"

// RedisCache stores triage lists as JSON strings in Redis.
type RedisCache struct {
	client *redis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisCache(client), nil
}

// Key returns the Redis key holding the list for day.
func Key(day model.Date) string {
	return keyPrefix + day.String()
}

func (c *RedisCache) Get(ctx context.Context, day model.Date) ([]model.AlertResult, bool, error) {
	raw, err := c.client.Get(ctx, Key(day)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheRequest("miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheRequest("error")
		return nil, false, fmt.Errorf("reading %s: %w", Key(day), err)
	}

	var out []model.AlertResult
	if err := json.Unmarshal(raw, &out); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		metrics.RecordCacheRequest("error")
		_ = c.client.Del(ctx, Key(day)).Err()
		return nil, false, nil
	}
	metrics.RecordCacheRequest("hit")
	return out, true, nil
}

func (c *RedisCache) Set(ctx context.Context, day model.Date, results []model.AlertResult, ttl time.Duration) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding triage for %s: %w", day, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, Key(day), raw, ttl).Err(); err != nil {
		return fmt.Errorf("writing %s: %w", Key(day), err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, days ...model.Date) error {
	if len(days) == 0 {
		return nil
	}
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = Key(d)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidating %d days: %w", len(days), err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
