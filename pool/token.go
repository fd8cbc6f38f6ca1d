package pool

import "sync/atomic"

// CancelToken is the cooperative cancellation flag handed to a running
// task. It flips from not cancelled to cancelled exactly once, when its
// future is cancelled. Long running tasks should poll IsCancelled or select
// on Done and return early.
type CancelToken struct {
	cancelled atomic.Bool
	done      chan struct{}
}

func newCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// IsCancelled reports whether cancellation was requested.
func (t *CancelToken) IsCancelled() bool {
	return t.cancelled.Load()
}

// Done returns a channel closed when cancellation is requested.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}

func (t *CancelToken) cancel() {
	if t.cancelled.CompareAndSwap(false, true) {
		close(t.done)
	}
}
