// Package retry re-invokes failing operations under a bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/vietddude/echoscribe/internal/metrics"
)

// DefaultMultiplier is the backoff growth factor between attempts.
const DefaultMultiplier = 2.0

// Policy defines retry behavior for one invocation.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64 // 0 means DefaultMultiplier
}

// DefaultPolicy mirrors the defaults of the AI backends.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
	Multiplier:  DefaultMultiplier,
}

// Backoff returns the wait before the retry that follows the given 0-indexed attempt.
func Backoff(policy Policy, attempt int) time.Duration {
	if policy.BaseDelay <= 0 {
		return 0
	}
	mult := policy.Multiplier
	if mult == 0 {
		mult = DefaultMultiplier
	}
	delay := float64(policy.BaseDelay) * math.Pow(mult, float64(attempt))
	if delay > float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// Executor runs work under a Policy. It holds no per-invocation state and is safe
// for concurrent use.
type Executor struct {
	log   *slog.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an Executor that logs through log (slog.Default when nil).
func NewExecutor(log *slog.Logger) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		log:   log.With("component", "retry"),
		sleep: sleepContext,
	}
}

// Do invokes work until it succeeds, the policy is exhausted, or ctx is done.
func (e *Executor) Do(
	ctx context.Context,
	name string,
	policy Policy,
	work func(ctx context.Context) error,
) error {
	_, err := Execute(ctx, e, name, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, work(ctx)
	})
	return err
}

// Execute invokes work with exponential backoff and returns its first successful value.
//
// Failure after the final attempt is returned as *ExhaustedError. If ctx is cancelled
// before an attempt or during a backoff wait, no further attempts are scheduled and
// *CancelledError is returned.
func Execute[T any](
	ctx context.Context,
	e *Executor,
	name string,
	policy Policy,
	work func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	if policy.MaxAttempts < 1 {
		return zero, ErrInvalidPolicy
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, e.cancelled(name, attempt, err)
		}

		start := time.Now()
		result, err := work(ctx)
		elapsed := time.Since(start)
		metrics.RetryAttemptLatency.WithLabelValues(name).Observe(elapsed.Seconds())

		if err == nil {
			metrics.RetryAttemptsTotal.WithLabelValues(name, "success").Inc()
			e.log.Info("Operation completed",
				"operation", name,
				"attempt", attempt+1,
				"max_attempts", policy.MaxAttempts,
				"duration", elapsed,
			)
			return result, nil
		}

		lastErr = err
		metrics.RetryAttemptsTotal.WithLabelValues(name, "failure").Inc()
		e.log.Warn("Attempt failed",
			"operation", name,
			"attempt", attempt+1,
			"max_attempts", policy.MaxAttempts,
			"duration", elapsed,
			"error", err,
		)

		// A failure caused by the caller's context is not transient.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, e.cancelled(name, attempt+1, ctxErr)
		}

		if attempt+1 == policy.MaxAttempts {
			break
		}

		delay := Backoff(policy, attempt)
		if err := e.sleep(ctx, delay); err != nil {
			return zero, e.cancelled(name, attempt+1, err)
		}
	}

	metrics.RetryExhaustedTotal.WithLabelValues(name).Inc()
	e.log.Error("All attempts failed",
		"operation", name,
		"attempts", policy.MaxAttempts,
		"error", lastErr,
	)
	return zero, &ExhaustedError{Operation: name, Attempts: policy.MaxAttempts, Last: lastErr}
}

func (e *Executor) cancelled(name string, attempts int, cause error) error {
	e.log.Warn("Operation cancelled", "operation", name, "attempts", attempts, "error", cause)
	return &CancelledError{Operation: name, Attempts: attempts, Cause: cause}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsRetryExhausted reports whether err came from an exhausted retry sequence.
func IsRetryExhausted(err error) bool {
	return errors.Is(err, ErrExhausted)
}

// IsCancelled reports whether err came from a cancelled retry sequence.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
