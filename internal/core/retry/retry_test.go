package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestExecutor() (*Executor, *[]time.Duration) {
	var delays []time.Duration
	e := NewExecutor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return e, &delays
}

func TestExecute_SucceedsAfterFailures(t *testing.T) {
	e, delays := newTestExecutor()
	calls := 0

	result, err := Execute(context.Background(), e, "transcribe",
		Policy{MaxAttempts: 3, BaseDelay: time.Second},
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("upstream unavailable")
			}
			return 42, nil
		})

	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %d", result)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("Expected delays %v, got %v", want, *delays)
	}
	for i := range want {
		if (*delays)[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, (*delays)[i], want[i])
		}
	}
}

func TestExecute_AlwaysFails(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("max_attempts=%d", n), func(t *testing.T) {
			e, delays := newTestExecutor()
			calls := 0
			cause := errors.New("boom")

			_, err := Execute(context.Background(), e, "sentiment",
				Policy{MaxAttempts: n, BaseDelay: 10 * time.Millisecond},
				func(ctx context.Context) (string, error) {
					calls++
					return "", cause
				})

			if calls != n {
				t.Errorf("Expected %d calls, got %d", n, calls)
			}
			if len(*delays) != n-1 {
				t.Errorf("Expected %d delays, got %d", n-1, len(*delays))
			}

			var exhausted *ExhaustedError
			if !errors.As(err, &exhausted) {
				t.Fatalf("Expected ExhaustedError, got %v", err)
			}
			if exhausted.Attempts != n {
				t.Errorf("Expected attempts=%d, got %d", n, exhausted.Attempts)
			}
			if !errors.Is(err, cause) {
				t.Error("Expected error to unwrap to the last cause")
			}
			if !IsRetryExhausted(err) || IsCancelled(err) {
				t.Error("Expected exhausted classification")
			}
		})
	}
}

func TestExecute_SuccessOnAttemptK(t *testing.T) {
	for k := 1; k <= 4; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			e, _ := newTestExecutor()
			calls := 0
			got, err := Execute(context.Background(), e, "summary",
				Policy{MaxAttempts: 4, BaseDelay: time.Millisecond},
				func(ctx context.Context) (int, error) {
					calls++
					if calls < k {
						return 0, errors.New("transient")
					}
					return calls, nil
				})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if calls != k || got != k {
				t.Errorf("Expected %d calls and result %d, got calls=%d result=%d", k, k, calls, got)
			}
		})
	}
}

func TestExecute_SingleAttemptNeverSleeps(t *testing.T) {
	e, delays := newTestExecutor()
	calls := 0
	err := e.Do(context.Background(), "analyze", Policy{MaxAttempts: 1, BaseDelay: time.Hour},
		func(ctx context.Context) error {
			calls++
			return errors.New("fail")
		})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(*delays) != 0 {
		t.Errorf("Expected no delays, got %v", *delays)
	}
	if !IsRetryExhausted(err) {
		t.Errorf("Expected exhausted error, got %v", err)
	}
}

func TestExecute_InvalidPolicy(t *testing.T) {
	e, _ := newTestExecutor()
	calls := 0
	err := e.Do(context.Background(), "analyze", Policy{MaxAttempts: 0},
		func(ctx context.Context) error {
			calls++
			return nil
		})
	if !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("Expected ErrInvalidPolicy, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected work not to run, got %d calls", calls)
	}
}

func TestExecute_CancelledDuringBackoff(t *testing.T) {
	e := NewExecutor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := e.Do(ctx, "transcribe", Policy{MaxAttempts: 5, BaseDelay: time.Minute},
		func(ctx context.Context) error {
			calls++
			return errors.New("upstream down")
		})

	if time.Since(start) > 5*time.Second {
		t.Fatal("Expected cancellation to interrupt the backoff wait")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}

	var cancelled *CancelledError
	if !errors.As(err, &cancelled) {
		t.Fatalf("Expected CancelledError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected error to unwrap to context.Canceled")
	}
	if IsRetryExhausted(err) {
		t.Error("Cancellation must not be reported as exhaustion")
	}
}

func TestExecute_CancelledBeforeFirstAttempt(t *testing.T) {
	e, _ := newTestExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Execute(ctx, e, "summary", DefaultPolicy, func(ctx context.Context) (int, error) {
		calls++
		return 1, nil
	})
	if calls != 0 {
		t.Errorf("Expected no calls, got %d", calls)
	}
	if !IsCancelled(err) {
		t.Errorf("Expected cancelled error, got %v", err)
	}
}

func TestExecute_RealBackoffTiming(t *testing.T) {
	e := NewExecutor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var stamps []time.Time

	_ = e.Do(context.Background(), "timing", Policy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond},
		func(ctx context.Context) error {
			stamps = append(stamps, time.Now())
			return errors.New("fail")
		})

	if len(stamps) != 3 {
		t.Fatalf("Expected 3 attempts, got %d", len(stamps))
	}
	if gap := stamps[1].Sub(stamps[0]); gap < 20*time.Millisecond {
		t.Errorf("Expected first gap >= 20ms, got %v", gap)
	}
	if gap := stamps[2].Sub(stamps[1]); gap < 40*time.Millisecond {
		t.Errorf("Expected second gap >= 40ms, got %v", gap)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		attempt  int
		expected time.Duration
	}{
		{"first retry", Policy{BaseDelay: time.Second}, 0, time.Second},
		{"second retry", Policy{BaseDelay: time.Second}, 1, 2 * time.Second},
		{"fourth retry", Policy{BaseDelay: time.Second, Multiplier: 2}, 3, 8 * time.Second},
		{"zero base", Policy{BaseDelay: 0}, 2, 0},
		{"negative base", Policy{BaseDelay: -time.Second}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Backoff(tt.policy, tt.attempt); got != tt.expected {
				t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestExhaustedError_Message(t *testing.T) {
	err := &ExhaustedError{Operation: "openai.transcribe", Attempts: 3, Last: errors.New("503 Service Unavailable")}
	want := "openai.transcribe failed after 3 attempts: 503 Service Unavailable"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
