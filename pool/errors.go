package pool

import (
	"errors"

	"github.com/utkarsh5026/threadkit/collections/synchronized"
	"github.com/utkarsh5026/threadkit/internal/syncx"
)

var (
	// ErrInvalidArgs reports a nil pool or function, a non-positive pool
	// size or an unknown priority.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrCancelled is returned by Wait on a cancelled future.
	ErrCancelled = errors.New("future cancelled")

	// ErrThreadError means a worker could not be started. Workers started
	// before the failure have been stopped again.
	ErrThreadError = errors.New("worker failed to start")

	// ErrQueueFailure wraps the error of a task queue that refused a task.
	ErrQueueFailure = errors.New("task queue refused task")
)

// Errors shared with the task queue and the synchronization primitives.
var (
	ErrClosed            = synchronized.ErrClosed
	ErrTimeout           = syncx.ErrTimeout
	ErrCannotAcquireLock = syncx.ErrCannotAcquireLock
	ErrSynchronization   = syncx.ErrSynchronization
)
