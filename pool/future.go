package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/threadkit/internal/syncx"
)

const (
	// StatusUnset is the status of a future that holds no result.
	StatusUnset = -1

	// StatusPanicked is published when the task function panicked. The
	// value is then the zero value of the result type.
	StatusPanicked = -2
)

type futureState int

const (
	statePending futureState = iota
	stateRunning
	stateComputed
	stateCancelled
)

func (s futureState) done() bool {
	return s == stateComputed || s == stateCancelled
}

// Future is a single-assignment container for the result of an
// asynchronous task. It becomes either computed or cancelled, never both,
// and its result never changes afterwards. Any number of goroutines may
// wait on it.
type Future[R any] struct {
	mu   *syncx.Mutex
	cond *syncx.Cond

	state  futureState
	token  *CancelToken
	status int
	value  R
}

// NewFuture returns a pending future.
func NewFuture[R any]() *Future[R] {
	mu := syncx.NewMutex()
	return &Future[R]{
		mu:     mu,
		cond:   syncx.NewCond(mu),
		token:  newCancelToken(),
		status: StatusUnset,
	}
}

// Wait blocks until the future is computed or cancelled, or timeout
// elapses. A zero timeout waits forever. It returns the value and status of
// a computed future, ErrCancelled for a cancelled one, and
// ErrCannotAcquireLock, ErrTimeout or ErrSynchronization when waiting
// fails. The caller owns the returned value.
func (f *Future[R]) Wait(timeout time.Duration) (R, int, error) {
	ctx, cancel := syncx.After(timeout).Context(context.Background())
	defer cancel()
	return f.WaitContext(ctx)
}

// WaitContext is Wait bounded by ctx.
func (f *Future[R]) WaitContext(ctx context.Context) (R, int, error) {
	var zero R
	if err := f.mu.LockContext(ctx); err != nil {
		return zero, StatusUnset, err
	}
	defer f.mu.Unlock()

	for !f.state.done() {
		if err := f.cond.WaitContext(ctx); err != nil {
			return zero, StatusUnset, err
		}
	}

	if f.state == stateCancelled {
		return zero, f.status, ErrCancelled
	}
	return f.value, f.status, nil
}

// Get waits without a deadline.
func (f *Future[R]) Get() (R, int, error) {
	return f.Wait(syncx.Infinite)
}

// Cancel requests cancellation. The token is always set; the future itself
// becomes cancelled only if no result has been published yet, in which case
// every waiter wakes with ErrCancelled and Cancel returns true. A task that
// is already running keeps running until it notices the token, and its
// result is discarded.
func (f *Future[R]) Cancel() bool {
	f.token.cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.done() {
		return false
	}
	f.state = stateCancelled
	f.cond.Broadcast()
	return true
}

// Complete publishes value and status and wakes every waiter. It reports
// false, and changes nothing, when the future is already computed or
// cancelled.
func (f *Future[R]) Complete(value R, status int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.done() {
		return false
	}
	f.value = value
	f.status = status
	f.state = stateComputed
	f.cond.Broadcast()
	return true
}

// begin moves a pending future to running. It reports false when the task
// must be skipped because the future was cancelled or completed before a
// worker picked it up.
func (f *Future[R]) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != statePending {
		f.cond.Broadcast()
		return false
	}
	f.state = stateRunning
	return true
}

// IsDone reports whether the future is computed or cancelled.
func (f *Future[R]) IsDone() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.done()
}

func (f *Future[R]) IsCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateCancelled
}

// Token returns the cancellation token passed to the task.
func (f *Future[R]) Token() *CancelToken {
	return f.token
}

// Destroy wakes every remaining waiter with ErrSynchronization and makes
// later waits on an unfinished future fail with it. The stored value is
// never touched; releasing it is the caller's business.
func (f *Future[R]) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cond.Destroy()
}
