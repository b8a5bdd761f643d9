// Package retry provides the fixed-interval retry policy used when waiting
// for a management endpoint to become reachable.
//
// A Policy retries an operation a bounded number of times with a constant
// delay between attempts. There is no exponential growth and no jitter:
// the total wait is MaxAttempts * Delay in the worst case.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v3"

	"github.com/isometry/fwboot/pkg/utils"
)

const (
	DefaultMaxAttempts = 60
	DefaultDelay       = 30 * time.Second
)

// Default retries for roughly thirty minutes.
var Default = Policy{
	MaxAttempts: DefaultMaxAttempts,
	Delay:       DefaultDelay,
}

type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func (p Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("maxAttempts", p.MaxAttempts),
		slog.Duration("delay", p.Delay),
	)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.StopBackOff{}
	// WithMaxRetries treats zero as unlimited
	if p.MaxAttempts > 1 {
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// Do invokes op until it succeeds, the attempt budget is spent or ctx is
// done. A failing op is invoked exactly MaxAttempts times (at least once).
// Errors wrapped with Permanent stop the loop immediately.
func (p Policy) Do(ctx context.Context, name string, op func(context.Context) error) error {
	log := utils.ContextLogger(ctx, slog.String("operation", name), slog.Any("policy", p))

	attempts := 0
	permanent := false
	err := backoff.RetryNotify(
		func() error {
			attempts++
			err := op(ctx)
			if _, ok := err.(*backoff.PermanentError); ok {
				permanent = true
			}
			return err
		},
		p.backOff(ctx),
		func(err error, next time.Duration) {
			log.Warn("attempt failed",
				slog.Int("attempt", attempts),
				slog.Duration("retryIn", next),
				slog.Any("error", err),
			)
		},
	)
	if err == nil {
		if attempts > 1 {
			log.Info("succeeded after retry", slog.Int("attempts", attempts))
		}
		return nil
	}

	if permanent {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted after %d attempt(s): %w", name, attempts, ctxErr)
	}

	return &ExhaustedError{Attempts: attempts, Err: err}
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
