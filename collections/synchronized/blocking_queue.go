package synchronized

import (
	"context"
	"time"

	"github.com/utkarsh5026/threadkit/collections"
	"github.com/utkarsh5026/threadkit/internal/syncx"
	"go.uber.org/zap"
)

// BlockingQueue is a thread-safe queue with optional capacity bound and
// optional priority order. Once closed it accepts no more elements and
// Dequeue drains what is left before reporting ErrClosed.
//
// The queue never inspects or releases the elements it stores.
type BlockingQueue[T any] struct {
	mu       *syncx.Mutex
	enqueued *syncx.Cond // signalled after an element is added
	dequeued *syncx.Cond // signalled after an element is removed

	queue   collections.Queue[T]
	maxLen  int
	compare Comparer[T]
	timeout time.Duration
	logger  *zap.Logger

	closed bool
	empty  bool
	full   bool
}

// New creates an empty, open queue configured by opts.
func New[T any](opts Options[T]) *BlockingQueue[T] {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mu := syncx.NewMutex()
	return &BlockingQueue[T]{
		mu:       mu,
		enqueued: syncx.NewCond(mu),
		dequeued: syncx.NewCond(mu),
		maxLen:   max(opts.MaximumLength, 0),
		compare:  opts.PriorityComparer,
		timeout:  opts.Timeout,
		logger:   logger.Named("blocking_queue"),
		empty:    true,
	}
}

// Enqueue adds element, waiting for space while a bounded queue is full.
// It fails with ErrClosed on a closed queue, ErrCannotAcquireLock or
// ErrTimeout when the queue timeout elapses, and ErrSynchronization when
// the queue is destroyed under it.
func (q *BlockingQueue[T]) Enqueue(element T) error {
	ctx, cancel := syncx.After(q.timeout).Context(context.Background())
	defer cancel()
	return q.enqueue(ctx, element)
}

// EnqueueContext is Enqueue bounded by ctx instead of the queue timeout.
// A context deadline maps to the same errors as the queue timeout; plain
// cancellation returns ctx.Err().
func (q *BlockingQueue[T]) EnqueueContext(ctx context.Context, element T) error {
	return q.enqueue(ctx, element)
}

// Dequeue removes and returns the head element, waiting while the queue is
// empty. A closed queue is drained first; after that Dequeue returns the
// zero value and ErrClosed.
func (q *BlockingQueue[T]) Dequeue() (T, error) {
	ctx, cancel := syncx.After(q.timeout).Context(context.Background())
	defer cancel()
	return q.dequeue(ctx)
}

// DequeueContext is Dequeue bounded by ctx instead of the queue timeout.
func (q *BlockingQueue[T]) DequeueContext(ctx context.Context) (T, error) {
	return q.dequeue(ctx)
}

// TryEnqueue adds element without blocking. It returns ErrWouldBlock when
// the lock is held elsewhere or the queue is full.
func (q *BlockingQueue[T]) TryEnqueue(element T) error {
	if !q.mu.TryLock() {
		return ErrWouldBlock
	}
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.full {
		return ErrWouldBlock
	}
	q.push(element)
	return nil
}

// TryDequeue removes the head element without blocking. It returns
// ErrWouldBlock when the lock is held elsewhere or the queue is empty and
// open, and ErrClosed when the queue is empty and closed.
func (q *BlockingQueue[T]) TryDequeue() (T, error) {
	var zero T
	if !q.mu.TryLock() {
		return zero, ErrWouldBlock
	}
	defer q.mu.Unlock()

	if q.empty {
		if q.closed {
			return zero, ErrClosed
		}
		return zero, ErrWouldBlock
	}
	return q.pop(), nil
}

func (q *BlockingQueue[T]) enqueue(ctx context.Context, element T) error {
	if err := q.mu.LockContext(ctx); err != nil {
		return err
	}
	defer q.mu.Unlock()

	for {
		if q.closed {
			return ErrClosed
		}
		if !q.full {
			break
		}
		if err := q.dequeued.WaitContext(ctx); err != nil {
			return err
		}
	}

	q.push(element)
	return nil
}

func (q *BlockingQueue[T]) dequeue(ctx context.Context) (T, error) {
	var zero T
	if err := q.mu.LockContext(ctx); err != nil {
		return zero, err
	}
	defer q.mu.Unlock()

	for q.empty {
		if q.closed {
			return zero, ErrClosed
		}
		if err := q.enqueued.WaitContext(ctx); err != nil {
			return zero, err
		}
	}

	return q.pop(), nil
}

// push and pop must be called with q.mu held.
func (q *BlockingQueue[T]) push(element T) {
	if q.compare == nil {
		_ = q.queue.Enqueue(element)
	} else {
		list := q.queue.List()
		at := list.IndexFunc(func(e T) bool { return q.compare(e, element) < 0 })
		if at < 0 {
			at = list.Len()
		}
		_ = list.Add(at, element)
	}

	q.updateFlags()
	q.enqueued.Signal()
}

func (q *BlockingQueue[T]) pop() T {
	element, _ := q.queue.Dequeue()
	q.updateFlags()
	q.dequeued.Signal()
	return element
}

func (q *BlockingQueue[T]) updateFlags() {
	n := q.queue.Len()
	q.empty = n == 0
	q.full = q.maxLen > 0 && n >= q.maxLen
}

// Close marks the queue closed and wakes every waiter. Blocked producers
// fail with ErrClosed; blocked consumers drain the remaining elements and
// then fail with ErrClosed. Closing twice is a no-op.
func (q *BlockingQueue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.enqueued.Broadcast()
	q.dequeued.Broadcast()

	q.logger.Debug("queue closed", zap.Int("pending", q.queue.Len()))
	return nil
}

// Destroy closes the queue, wakes any remaining waiter with
// ErrSynchronization and drops every stored element without touching it.
func (q *BlockingQueue[T]) Destroy() error {
	if err := q.Close(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := q.queue.Len()
	q.enqueued.Destroy()
	q.dequeued.Destroy()
	q.queue.Clear()
	q.updateFlags()

	q.logger.Debug("queue destroyed", zap.Int("dropped", dropped))
	return nil
}

// Len returns the number of stored elements.
func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queue.Len()
}

func (q *BlockingQueue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.empty
}

// IsFull is always false for an unbounded queue.
func (q *BlockingQueue[T]) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.full
}

func (q *BlockingQueue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
