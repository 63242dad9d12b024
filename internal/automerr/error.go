// Package automerr defines the error taxonomy shared between the github
// client and the automerge core.
package automerr

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by fetch operations when no matching pull request
// exists. It signals "nothing to do", not a fault.
var ErrNotFound = errors.New("not found")

// RetryableError wraps errors caused by temporary conditions, e.g. an
// exceeded API rate limit or a 5xx response.
// The automerger does not retry operations itself, the classification is
// kept so that logs and outcomes distinguish transient from permanent
// failures.
type RetryableError struct {
	// Err is the wrapped original error
	Err error
	// After is the earliest point in time that the operation can be retried
	After time.Time
}

func NewRetryableError(originalErr error, retryAfter time.Time) *RetryableError {
	return &RetryableError{
		Err:   originalErr,
		After: retryAfter,
	}
}

func NewRetryableAnytimeError(originalErr error) *RetryableError {
	return &RetryableError{
		Err: originalErr,
	}
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

func (e *RetryableError) Error() string {
	if e.After.IsZero() {
		return fmt.Sprintf("retryable error: %s", e.Err)
	}

	return fmt.Sprintf("retryable error (after %s): %s", e.After, e.Err)
}
