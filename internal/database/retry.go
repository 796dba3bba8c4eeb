package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"shareit/internal/config"

	"github.com/rs/zerolog"
)

var errUnsupportedDriver = errors.New("unsupported database driver")

// OpenBackoff paces OpenWithRetry while the database server comes up.
// The n-th wait doubles from Base up to Cap and is then drawn from its upper half,
// so replicas restarted together do not reconnect in lockstep.
type OpenBackoff struct {
	Attempts int
	Base     time.Duration
	Cap      time.Duration
	// Jitter returns a value in [0, 1). Nil means math/rand/v2.
	Jitter func() float64
}

func (b OpenBackoff) attempts() int {
	if b.Attempts < 1 {
		return 1
	}
	return b.Attempts
}

// Wait returns the pause before retry n, counting from 1.
func (b OpenBackoff) Wait(n int) time.Duration {
	base := b.Base
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	ceiling := max(b.Cap, base)

	d := base
	for i := 1; i < n && d < ceiling; i++ {
		d *= 2
	}
	d = min(d, ceiling)

	jitter := b.Jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	half := d / 2
	return half + time.Duration(jitter()*float64(d-half))
}

// OpenWithRetry calls Open until it succeeds, the attempts run out or ctx is done.
// A Postgres server that is still starting is the usual reason to wait.
// Configuration errors such as an unknown driver fail on the first attempt.
func OpenWithRetry(ctx context.Context, cfg config.DatabaseConfig, b OpenBackoff, logger *zerolog.Logger) (*DB, error) {
	return openWithBackoff(ctx, b, func() (*DB, error) { return Open(cfg, logger) }, logger)
}

func openWithBackoff(ctx context.Context, b OpenBackoff, open func() (*DB, error), logger *zerolog.Logger) (*DB, error) {
	var lastErr error
	for attempt := 1; attempt <= b.attempts(); attempt++ {
		if attempt > 1 {
			wait := b.Wait(attempt - 1)
			if logger != nil {
				logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("wait", wait).Msg("database open failed, retrying")
			}
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
		}

		db, err := open()
		if err == nil {
			return db, nil
		}
		if errors.Is(err, errUnsupportedDriver) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("open database after %d attempts: %w", b.attempts(), lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
