package retry

import (
	"context"
	"errors"
	"time"
)

// Policy controls how Do repeats a failing operation.
type Policy struct {
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Multiplier scales the delay after every failed attempt. Values <= 1
	// keep the delay fixed.
	Multiplier float64
	// MaxDelay caps the grown delay. Zero means no cap.
	MaxDelay time.Duration
	// MaxAttempts bounds the number of calls. Zero means retry until success.
	MaxAttempts int
	// OnRetry is called after each failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Fixed returns an unbounded policy with a constant delay.
func Fixed(d time.Duration) Policy {
	return Policy{Delay: d, Multiplier: 1}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do calls fn until it succeeds, returns a permanent error, the attempt
// budget is spent, or ctx is done. Permanent errors are returned unwrapped.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	wait := p.Delay
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		wait = next(p, wait)
	}
}

func next(p Policy, cur time.Duration) time.Duration {
	if p.Multiplier <= 1 {
		return cur
	}
	n := time.Duration(float64(cur) * p.Multiplier)
	if p.MaxDelay > 0 && n > p.MaxDelay {
		return p.MaxDelay
	}
	return n
}
