package collections

// Queue is a FIFO view over a LinkedList: Enqueue appends at the tail and
// Dequeue removes at the head, both in O(1).
//
// The zero value is an empty queue ready to use. A Queue is not safe for
// concurrent use.
type Queue[T any] struct {
	list LinkedList[T]
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return q.list.Len()
}

// Enqueue appends element at the tail.
func (q *Queue[T]) Enqueue(element T) error {
	if q == nil {
		return ErrInvalidArgs
	}
	return q.list.Add(q.list.Len(), element)
}

// Dequeue removes and returns the head element.
// On an empty queue it returns the zero value and ErrEmpty.
func (q *Queue[T]) Dequeue() (T, error) {
	var zero T
	if q == nil {
		return zero, ErrInvalidArgs
	}
	if q.list.Len() == 0 {
		return zero, ErrEmpty
	}
	return q.list.Remove(0)
}

// Peek returns the head element without removing it.
func (q *Queue[T]) Peek() (T, error) {
	var zero T
	if q == nil {
		return zero, ErrInvalidArgs
	}
	if q.list.Len() == 0 {
		return zero, ErrEmpty
	}
	return q.list.Get(0)
}

// List exposes the inner list for callers that need positional inserts,
// such as priority ordering. Mutating it keeps the queue consistent since
// the queue holds no other state.
func (q *Queue[T]) List() *LinkedList[T] {
	if q == nil {
		return nil
	}
	return &q.list
}

// Clear empties the queue without touching the elements.
func (q *Queue[T]) Clear() {
	if q == nil {
		return
	}
	q.list.Clear()
}
