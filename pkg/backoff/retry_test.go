package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withFastDelay(t *testing.T) {
	t.Helper()
	prev := BaseDelay
	BaseDelay = time.Millisecond
	t.Cleanup(func() { BaseDelay = prev })
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "db", 3, func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	withFastDelay(t)

	calls := 0
	err := Retry(context.Background(), "db", 5, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	withFastDelay(t)

	connErr := errors.New("connection refused")
	calls := 0
	err := Retry(context.Background(), "redis", 3, func(ctx context.Context) error {
		calls++
		return connErr
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, connErr)
	assert.Contains(t, err.Error(), "failed to connect to redis after 3 attempts")
}

func TestRetry_ZeroAttemptsStillTriesOnce(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), "db", 0, func(ctx context.Context) error {
		calls++
		return errors.New("boom")
	})

	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := Retry(ctx, "db", 3, func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
