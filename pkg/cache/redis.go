// Package cache connects to the Redis instance holding cart snapshots.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/pkg/backoff"
)

// NewClient creates a Redis client and verifies it with a ping, retrying
// with exponential backoff.
func NewClient(ctx context.Context, opts *redis.Options, maxRetries int) (*redis.Client, error) {
	var rdb *redis.Client
	err := backoff.Retry(ctx, "redis", maxRetries, func(ctx context.Context) error {
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			_ = c.Close()
			return fmt.Errorf("ping failed: %w", err)
		}
		rdb = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("redis connection established")
	return rdb, nil
}
