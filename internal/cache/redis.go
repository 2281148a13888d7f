package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// DefaultTTL bounds how long a report stays in Redis
const DefaultTTL = 24 * time.Hour

// RedisCache shares reports between server instances
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: rdb,
		ttl:    ttl,
	}
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Get(ctx context.Context, key string) (*domain.TaxReport, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var report domain.TaxReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached report %s: %w", key, err)
	}
	return &report, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, report *domain.TaxReport) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
