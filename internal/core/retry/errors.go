package retry

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted matches every *ExhaustedError.
	ErrExhausted = errors.New("retry exhausted")
	// ErrCancelled matches every *CancelledError.
	ErrCancelled = errors.New("retry cancelled")
	// ErrInvalidPolicy is returned when MaxAttempts < 1.
	ErrInvalidPolicy = errors.New("retry: MaxAttempts must be at least 1")
)

// ExhaustedError reports that every attempt of an operation failed.
type ExhaustedError struct {
	Operation string
	Attempts  int
	Last      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// CancelledError reports that the caller's context ended mid-sequence.
type CancelledError struct {
	Operation string
	Attempts  int // attempts made before cancellation
	Cause     error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled after %d attempts: %v", e.Operation, e.Attempts, e.Cause)
}

func (e *CancelledError) Unwrap() error {
	return e.Cause
}

func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}
