package syncx

import (
	"context"
	"errors"
)

var (
	// ErrTimeout means the deadline elapsed while waiting on a condition.
	// The operation can be retried or abandoned.
	ErrTimeout = errors.New("deadline elapsed while waiting")

	// ErrCannotAcquireLock means the deadline elapsed before the lock could
	// be acquired.
	ErrCannotAcquireLock = errors.New("cannot acquire lock before deadline")

	// ErrSynchronization reports an unexpected failure of a synchronization
	// primitive, for instance waiting on a destroyed condition.
	ErrSynchronization = errors.New("synchronization error")
)

// waitError maps the error of a done context onto the package errors.
// Plain cancellation is passed through unchanged.
func waitError(err, onDeadline error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return onDeadline
	}
	return err
}
