package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// ErrExecution marks a failure of the execution environment (worker panic,
	// timeout). The same input may succeed on retry.
	ErrExecution = errors.New("execution failed")

	// ErrMalformedComment marks a comment record that violates the input
	// contract. It indicates an upstream bug and is never retried.
	ErrMalformedComment = errors.New("malformed comment")
)

// Retryable reports whether err belongs to the retryable class.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMalformedComment) {
		return false
	}
	return errors.Is(err, ErrExecution)
}
