package synchronized

import (
	"time"

	"go.uber.org/zap"
)

// Comparer orders two elements by priority. It returns a negative number
// when a has lower priority than b, zero when they are equal and a
// positive number otherwise.
type Comparer[T any] func(a, b T) int

// Options configures a BlockingQueue. The zero value is an unbounded FIFO
// queue whose operations wait forever.
type Options[T any] struct {
	// MaximumLength bounds the queue. Zero means unbounded.
	MaximumLength int

	// PriorityComparer switches the queue to priority order. A new element
	// is inserted before the first element of strictly lower priority, so
	// equal priorities keep their arrival order. Nil means FIFO.
	PriorityComparer Comparer[T]

	// Timeout bounds every blocking Enqueue and Dequeue, lock acquisition
	// included. Zero means wait forever.
	Timeout time.Duration

	// Logger receives lifecycle events. Nil disables logging.
	Logger *zap.Logger
}
