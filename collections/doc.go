// Package collections provides the single-goroutine building blocks of the
// toolkit: an index-addressable doubly-linked list and a FIFO queue on top
// of it.
//
// Both containers are generic and never inspect or release the elements
// they store. Ownership of an element stays with whoever inserted it, and
// the element is handed back unchanged when it is removed.
//
//	q := collections.NewQueue[string]()
//	_ = q.Enqueue("a")
//	_ = q.Enqueue("b")
//	v, err := q.Dequeue() // "a", nil
//
// An empty queue reports ErrEmpty from Dequeue. That is a normal control
// flow signal and callers are expected to check it with errors.Is.
//
// For a thread-safe, blocking variant see the synchronized subpackage.
package collections
