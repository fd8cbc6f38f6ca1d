package syncx

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Mutex is a mutual exclusion lock whose acquisition can be bounded by a
// deadline or a context. It is a weighted semaphore of size one.
//
// Unlike sync.Mutex the zero value is not usable; create one with NewMutex.
type Mutex struct {
	sem *semaphore.Weighted
}

// NewMutex returns an unlocked mutex.
func NewMutex() *Mutex {
	return &Mutex{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the mutex is acquired.
func (m *Mutex) Lock() {
	_ = m.sem.Acquire(context.Background(), 1)
}

// TryLock acquires the mutex only if it is free right now.
func (m *Mutex) TryLock() bool {
	return m.sem.TryAcquire(1)
}

// LockUntil acquires the mutex or fails with ErrCannotAcquireLock once d
// expires. A free mutex is acquired even if d has already passed.
func (m *Mutex) LockUntil(d Deadline) error {
	if m.sem.TryAcquire(1) {
		return nil
	}
	if d.Infinite() {
		m.Lock()
		return nil
	}

	ctx, cancel := d.Context(context.Background())
	defer cancel()
	return m.LockContext(ctx)
}

// LockContext acquires the mutex or fails when ctx is done. A deadline
// reported by ctx maps to ErrCannotAcquireLock; plain cancellation returns
// ctx.Err().
func (m *Mutex) LockContext(ctx context.Context) error {
	if m.sem.TryAcquire(1) {
		return nil
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return waitError(err, ErrCannotAcquireLock)
	}
	return nil
}

// Unlock releases the mutex. Unlocking an unlocked mutex panics.
func (m *Mutex) Unlock() {
	m.sem.Release(1)
}
