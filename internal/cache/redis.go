// Package cache holds the optional Redis-backed dashboard cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vwds/config"
	"vwds/internal/models"
)

const (
	statsKey  = "vwds:dashboard:stats"
	opTimeout = 500 * time.Millisecond
)

// ErrMiss is returned when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatsCache connects and pings. Callers treat an error as "run
// without a cache".
func NewRedisStatsCache(ctx context.Context, cfg config.CacheConfig) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return &RedisStatsCache{client: client, ttl: cfg.StatsTTL}, nil
}

func (c *RedisStatsCache) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var s models.DashboardStats
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &s, nil
}

func (c *RedisStatsCache) SetStats(ctx context.Context, s *models.DashboardStats) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, b, c.ttl).Err()
}

func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}
