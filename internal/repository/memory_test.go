package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.CheckRateLimit(ctx, 1, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.CheckRateLimit(ctx, 1, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(time.Minute)
	allowed, err = limiter.CheckRateLimit(ctx, 1, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "window reset")
}

func TestMemoryRateLimiterSweep(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = limiter.CheckRateLimit(ctx, 1, 1, time.Second)
	_, _ = limiter.CheckRateLimit(ctx, 2, 1, time.Hour)

	now = now.Add(time.Minute)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Len(t, limiter.entries, 1)
}

func TestMemoryRateLimiterRunSweeperStops(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
