package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackoffWait(t *testing.T) {
	tests := []struct {
		name   string
		b      OpenBackoff
		n      int
		expect time.Duration
	}{
		{"first retry lower bound", OpenBackoff{Base: 100 * time.Millisecond, Cap: time.Second, Jitter: func() float64 { return 0 }}, 1, 50 * time.Millisecond},
		{"doubles", OpenBackoff{Base: 100 * time.Millisecond, Cap: time.Second, Jitter: func() float64 { return 0 }}, 3, 200 * time.Millisecond},
		{"capped", OpenBackoff{Base: 100 * time.Millisecond, Cap: time.Second, Jitter: func() float64 { return 0.5 }}, 10, 750 * time.Millisecond},
		{"cap below base", OpenBackoff{Base: time.Second, Cap: time.Millisecond, Jitter: func() float64 { return 0 }}, 4, 500 * time.Millisecond},
		{"zero value", OpenBackoff{Jitter: func() float64 { return 0 }}, 1, 250 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.b.Wait(tt.n))
		})
	}

	b := OpenBackoff{Base: 40 * time.Millisecond, Cap: time.Second}
	for i := 0; i < 50; i++ {
		got := b.Wait(2)
		assert.GreaterOrEqual(t, got, 40*time.Millisecond)
		assert.LessOrEqual(t, got, 80*time.Millisecond)
	}
}

func TestOpenWithBackoff(t *testing.T) {
	logger := zerolog.Nop()
	fast := OpenBackoff{Attempts: 3, Base: time.Millisecond, Cap: time.Millisecond}
	refused := errors.New("connection refused")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		db, err := openWithBackoff(context.Background(), fast, func() (*DB, error) {
			calls++
			if calls < 3 {
				return nil, refused
			}
			return NewDB(":memory:", &logger)
		}, &logger)
		require.NoError(t, err)
		require.NoError(t, db.Close())
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		_, err := openWithBackoff(context.Background(), fast, func() (*DB, error) {
			calls++
			return nil, refused
		}, &logger)
		assert.ErrorIs(t, err, refused)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		_, err := openWithBackoff(ctx, OpenBackoff{Attempts: 5, Base: time.Hour}, func() (*DB, error) {
			calls++
			return nil, refused
		}, &logger)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestOpenWithRetry(t *testing.T) {
	logger := zerolog.Nop()
	b := OpenBackoff{Attempts: 3, Base: time.Hour}

	db, err := OpenWithRetry(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, b, &logger)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// An unknown driver never becomes valid, so it must not wait out the hour.
	_, err = OpenWithRetry(context.Background(), config.DatabaseConfig{Driver: "oracle"}, b, &logger)
	assert.ErrorIs(t, err, errUnsupportedDriver)
}
