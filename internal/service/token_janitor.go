package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"
)

// TokenPurger deletes token rows that have not been written for maxAge.
type TokenPurger interface {
	PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error)
}

// TokenJanitorOptions groups dependencies for TokenJanitor.
type TokenJanitorOptions struct {
	Purger   TokenPurger
	Interval time.Duration
	MaxAge   time.Duration
	Logger   *slog.Logger
}

// TokenJanitor removes persisted tokens of clients that never came back.
// Logout already clears its own slots; this catches abandoned browsers.
type TokenJanitor struct {
	purger   TokenPurger
	interval time.Duration
	maxAge   time.Duration
	logger   *slog.Logger
}

// NewTokenJanitor constructs a TokenJanitor.
func NewTokenJanitor(opts TokenJanitorOptions) (*TokenJanitor, error) {
	if opts.Purger == nil {
		return nil, errors.New("token purger is required")
	}
	if opts.Interval <= 0 {
		return nil, errors.New("janitor interval must be positive")
	}
	if opts.MaxAge <= 0 {
		return nil, errors.New("janitor max age must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenJanitor{
		purger:   opts.Purger,
		interval: opts.Interval,
		maxAge:   opts.MaxAge,
		logger:   logger.With("component", "token_janitor"),
	}, nil
}

// Run purges once after a short jitter and then every interval until ctx is
// cancelled. Cancellation is not an error.
func (j *TokenJanitor) Run(ctx context.Context) error {
	j.logger.InfoContext(ctx, "starting token janitor", "interval", j.interval, "max_age", j.maxAge)

	j.waitWithJitter(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.PurgeOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			j.logger.InfoContext(ctx, "token janitor stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			j.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce runs a single purge and returns the number of removed rows.
// Failures are logged; the next tick tries again.
func (j *TokenJanitor) PurgeOnce(ctx context.Context) int64 {
	if ctx.Err() != nil {
		return 0
	}
	n, err := j.purger.PurgeStale(ctx, j.maxAge)
	if err != nil {
		if !isContextCancellation(err) {
			j.logger.ErrorContext(ctx, "purge stale tokens failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		j.logger.InfoContext(ctx, "purged stale tokens", "rows", n)
	}
	return n
}

// waitWithJitter delays up to 10% of the interval so replicas do not purge in lockstep.
func (j *TokenJanitor) waitWithJitter(ctx context.Context) {
	maxJitter := int64(j.interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		j.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func isContextCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
