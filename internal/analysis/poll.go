// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"context"
	"fmt"
	"time"
)

// PollConfig bounds a polling loop. Zero Timeout or MaxAttempts means that
// bound is not applied.
type PollConfig struct {
	Interval    time.Duration
	Timeout     time.Duration
	MaxAttempts int
}

// Poll repeatedly refreshes current with next until done reports true.
// Before each wait it calls onWait with the value that was not yet done.
// It returns ErrPollTimeout when Timeout or MaxAttempts is exhausted and
// ctx.Err() when the caller cancels.
func Poll[T any](
	ctx context.Context,
	cfg PollConfig,
	current T,
	done func(T) bool,
	next func(context.Context) (T, error),
	onWait func(T),
) (T, error) {
	pollCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	for attempts := 0; !done(current); attempts++ {
		if cfg.MaxAttempts > 0 && attempts >= cfg.MaxAttempts {
			return current, fmt.Errorf("%w after %d attempts", ErrPollTimeout, attempts)
		}
		if onWait != nil {
			onWait(current)
		}

		timer := time.NewTimer(cfg.Interval)
		select {
		case <-pollCtx.Done():
			timer.Stop()
			return current, pollErr(ctx, cfg)
		case <-timer.C:
		}

		v, err := next(pollCtx)
		if err != nil {
			if pollCtx.Err() != nil {
				return current, pollErr(ctx, cfg)
			}
			return current, err
		}
		current = v
	}
	return current, nil
}

// pollErr distinguishes the caller cancelling ctx from the poll deadline.
func pollErr(parent context.Context, cfg PollConfig) error {
	if err := parent.Err(); err != nil {
		return err
	}
	return fmt.Errorf("%w after %v: %w", ErrPollTimeout, cfg.Timeout, context.DeadlineExceeded)
}
