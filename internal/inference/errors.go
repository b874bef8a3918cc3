// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import "errors"

// transientError marks a failure worth retrying: network trouble, rate
// limiting, or a server-side error. Anything not wrapped this way is
// permanent (bad request, bad credentials) and propagates immediately.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so the gateway's retry loop will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
