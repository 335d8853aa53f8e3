// Package backoff retries startup connections with exponential delays.
package backoff

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// BaseDelay is the wait after the first failed attempt. It doubles after
// every further failure.
var BaseDelay = time.Second

// Retry calls fn until it succeeds, attempts are exhausted or ctx is done.
// At least one attempt is always made.
func Retry(ctx context.Context, target string, attempts int, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		delay := BaseDelay << attempt
		log.Warn().
			Err(err).
			Str("target", target).
			Int("attempt", attempt+1).
			Int("max_attempts", attempts).
			Dur("next_retry_in", delay).
			Msg("connection failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("failed to connect to %s after %d attempts: %w", target, attempts, err)
}
