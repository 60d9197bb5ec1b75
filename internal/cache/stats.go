// Package cache keeps aggregate attempt statistics in Redis so the admin stats
// endpoint does not re-aggregate the attempts table on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/certprep/internal/attempt"
)

const statsKey = "certprep:stats:v1"

type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects and pings within five seconds.
func NewRedisStatsCache(addr, password string, db int, ttl time.Duration) (*StatsCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}
	return NewStatsCache(client, ttl), nil
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context) ([]attempt.Stats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []attempt.Stats
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (c *StatsCache) Set(ctx context.Context, stats []attempt.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

func (c *StatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}

func (c *StatsCache) Close() error { return c.client.Close() }
