package source

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a register entry the API no longer serves. It is
// terminal; the pipeline records the failure without retrying.
var ErrNotFound = errors.New("register entry not found")

// TransientError marks a failure worth retrying: a 5xx, 408 or 429 response,
// or a network-level error. Everything else from the API is terminal.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err should be retried with backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
