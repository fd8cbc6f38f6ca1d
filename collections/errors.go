package collections

import "errors"

var (
	// ErrInvalidArgs is returned when an operation is called on a nil collection.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrOutOfBounds is returned when an index falls outside the valid range
	// of the operation.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrEmpty is returned by Dequeue and Peek on an empty queue.
	// It is an expected signal, not a failure.
	ErrEmpty = errors.New("queue is empty")
)
