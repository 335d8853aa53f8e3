package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
)

var _ cart.SnapshotStore = (*RedisSnapshotStore)(nil)

// RedisSnapshotStore keeps cart snapshots in Redis.
type RedisSnapshotStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisSnapshotStore creates a store writing snapshots with the given TTL.
// A zero TTL keeps snapshots until they are overwritten.
func NewRedisSnapshotStore(rdb redis.Cmdable, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, ttl: ttl}
}

// Write stores the snapshot under key, refreshing its TTL.
func (s *RedisSnapshotStore) Write(ctx context.Context, key string, data []byte) error {
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Read returns the snapshot under key. found is false when the key is absent.
func (s *RedisSnapshotStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

// Ping checks that Redis is reachable.
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
