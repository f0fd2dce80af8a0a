package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/cloo-solutions/movierec/internal/domain"
)

const redisKeyPrefix = "movierec:artwork:"

// Redis stores artwork in a shared Redis instance, relying on key expiry for TTL
type Redis struct {
	rdb *redis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis connects using a redis:// URL and verifies the connection
func NewRedis(ctx context.Context, rawURL string) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Name() string { return "redis" }

func (r *Redis) Get(ctx context.Context, externalID string) (domain.ArtworkPaths, bool, error) {
	val, err := r.rdb.Get(ctx, redisKeyPrefix+externalID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ArtworkPaths{}, false, nil
	}
	if err != nil {
		return domain.ArtworkPaths{}, false, fmt.Errorf("redis get: %w", err)
	}

	var paths domain.ArtworkPaths
	if err := json.Unmarshal(val, &paths); err != nil {
		return domain.ArtworkPaths{}, false, fmt.Errorf("failed to decode cached artwork: %w", err)
	}
	return paths, true, nil
}

func (r *Redis) Set(ctx context.Context, externalID string, paths domain.ArtworkPaths, ttl time.Duration) error {
	b, err := json.Marshal(paths)
	if err != nil {
		return fmt.Errorf("failed to marshal artwork: %w", err)
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+externalID, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping checks connectivity
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
