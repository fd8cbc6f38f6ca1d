package synchronized

import (
	"errors"

	"code.hybscloud.com/iox"
	"github.com/utkarsh5026/threadkit/internal/syncx"
)

var (
	// ErrClosed is returned by Dequeue once the queue is closed and drained,
	// and by Enqueue on a closed queue. It is terminal.
	ErrClosed = errors.New("queue closed")

	// ErrTimeout means the deadline elapsed while waiting for space or for
	// an element.
	ErrTimeout = syncx.ErrTimeout

	// ErrCannotAcquireLock means the deadline elapsed before the queue lock
	// was acquired.
	ErrCannotAcquireLock = syncx.ErrCannotAcquireLock

	// ErrSynchronization reports a waiter woken by Destroy.
	ErrSynchronization = syncx.ErrSynchronization
)

// ErrWouldBlock is returned by TryEnqueue and TryDequeue when the operation
// cannot proceed immediately: the lock is busy, the queue is full, or the
// queue is empty and still open.
//
// This is an alias for [iox.ErrWouldBlock].
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
