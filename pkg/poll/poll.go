// Package poll waits for a remote condition by checking it on an interval
// until it holds, fails, or a deadline passes.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when Timeout elapses before the check reports done.
var ErrTimeout = errors.New("poll: timed out")

// Options controls the cadence of Until. Zero Multiplier keeps the interval
// fixed; MaxInterval caps growth when Multiplier is above one.
type Options struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	Timeout     time.Duration
}

// CheckFunc reports the current value, whether polling is finished, and any
// error that should stop polling immediately.
type CheckFunc[T any] func(ctx context.Context) (T, bool, error)

// Until sleeps one interval, runs check, and repeats until check reports done
// or returns an error. It never sleeps past the timeout and returns
// ErrTimeout once the elapsed time reaches it. Context cancellation is
// returned as ctx.Err().
func Until[T any](ctx context.Context, opts Options, check CheckFunc[T]) (T, error) {
	var zero T
	if opts.Interval <= 0 {
		return zero, errors.New("poll: interval must be positive")
	}

	start := time.Now()
	interval := opts.Interval

	for {
		wait := interval
		if opts.Timeout > 0 {
			remaining := opts.Timeout - time.Since(start)
			if remaining <= 0 {
				return zero, ErrTimeout
			}
			if wait > remaining {
				wait = remaining
			}
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}

		v, done, err := check(ctx)
		if err != nil {
			return zero, err
		}
		if done {
			return v, nil
		}

		if opts.Timeout > 0 && time.Since(start) >= opts.Timeout {
			return zero, ErrTimeout
		}
		interval = next(interval, opts)
	}
}

func next(cur time.Duration, opts Options) time.Duration {
	if opts.Multiplier <= 1 {
		return cur
	}
	n := time.Duration(float64(cur) * opts.Multiplier)
	if opts.MaxInterval > 0 && n > opts.MaxInterval {
		return opts.MaxInterval
	}
	return n
}
