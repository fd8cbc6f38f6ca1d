package syncx

import (
	"context"
	"sync"

	"github.com/utkarsh5026/threadkit/collections"
)

// waiter is one goroutine parked in Cond.Wait. ready is closed exactly once,
// after err has been set, so the woken goroutine can read err without
// taking the cond's internal lock.
type waiter struct {
	ready chan struct{}
	woken bool
	err   error
}

// Cond is a condition variable bound to a Mutex whose waits can be bounded
// by a deadline, the primitive behind pthread_cond_timedwait.
//
// As with sync.Cond, L must be held when calling Wait, and callers must
// re-check their predicate in a loop after every wake: a wake only means the
// predicate may have changed.
type Cond struct {
	L *Mutex

	mu        sync.Mutex
	waiters   collections.LinkedList[*waiter]
	destroyed bool
}

// NewCond returns a condition variable using l as its lock.
func NewCond(l *Mutex) *Cond {
	return &Cond{L: l}
}

// Wait atomically unlocks c.L and suspends the caller until woken by Signal,
// Broadcast or Destroy. c.L is locked again before Wait returns.
func (c *Cond) Wait() error {
	return c.WaitContext(context.Background())
}

// WaitUntil is Wait bounded by d. On expiry it returns ErrTimeout with c.L
// locked again.
func (c *Cond) WaitUntil(d Deadline) error {
	if d.Infinite() {
		return c.Wait()
	}

	ctx, cancel := d.Context(context.Background())
	defer cancel()
	return c.WaitContext(ctx)
}

// WaitContext is Wait bounded by ctx. A context deadline yields ErrTimeout,
// plain cancellation yields ctx.Err(). If a wake races with ctx the wake
// wins and WaitContext returns nil. c.L is always held on return.
func (c *Cond) WaitContext(ctx context.Context) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrSynchronization
	}
	w := &waiter{ready: make(chan struct{})}
	_ = c.waiters.Add(c.waiters.Len(), w)
	c.mu.Unlock()

	c.L.Unlock()

	var err error
	select {
	case <-w.ready:
		err = w.err
	case <-ctx.Done():
		err = c.abandon(w, ctx.Err())
	}

	c.L.Lock()
	return err
}

// Signal wakes the longest waiting goroutine, if any.
func (c *Cond) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.waiters.Len() > 0 {
		w, _ := c.waiters.Remove(0)
		w.wake(nil)
	}
}

// Broadcast wakes every waiting goroutine.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wakeAll(nil)
}

// Destroy wakes every waiter with ErrSynchronization and makes any later
// Wait fail with it immediately.
func (c *Cond) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.destroyed = true
	c.wakeAll(ErrSynchronization)
}

// Waiters returns the number of goroutines currently parked.
func (c *Cond) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.Len()
}

func (c *Cond) wakeAll(err error) {
	for c.waiters.Len() > 0 {
		w, _ := c.waiters.Remove(0)
		w.wake(err)
	}
}

// abandon unregisters a waiter whose context ended. A waiter that was woken
// in the meantime keeps its wake.
func (c *Cond) abandon(w *waiter, cause error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if w.woken {
		return w.err
	}
	if i := c.waiters.IndexFunc(func(x *waiter) bool { return x == w }); i >= 0 {
		_, _ = c.waiters.Remove(i)
	}
	return waitError(cause, ErrTimeout)
}

// wake must be called with the cond's internal lock held.
func (w *waiter) wake(err error) {
	w.woken = true
	w.err = err
	close(w.ready)
}
