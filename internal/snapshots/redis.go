package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/jobfit-assistant/internal/types"
)

// DefaultTTL bounds how long an unevicted snapshot survives in Redis.
const DefaultTTL = 6 * time.Hour

const keyPrefix = "jobfit:snapshot:"

// RedisStore is a Store backed by Redis string keys holding snapshot JSON.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		// url.Error echoes the URL, password included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// NewRedisStore wraps client. A non-positive ttl means DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Put(ctx context.Context, key string, snap types.JobSnapshot) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (*types.JobSnapshot, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}

	var snap types.JobSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return &snap, nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
