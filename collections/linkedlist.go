package collections

import "iter"

// node wraps a single element of a LinkedList. Nodes are owned by the list
// they belong to; the element itself stays owned by whoever inserted it.
type node[T any] struct {
	element  T
	previous *node[T]
	next     *node[T]
}

// LinkedList is a doubly-linked, index-addressable sequence.
//
// Lookups by index walk from whichever end is closer, so Add, Remove and Get
// cost O(min(index, Len()-index)). The list never inspects, copies or
// releases the elements it stores.
//
// The zero value is an empty list ready to use. A LinkedList is not safe for
// concurrent use; see the synchronized package for a thread-safe queue.
type LinkedList[T any] struct {
	head   *node[T]
	tail   *node[T]
	length int
}

// NewLinkedList returns an empty list.
func NewLinkedList[T any]() *LinkedList[T] {
	return &LinkedList[T]{}
}

// Len returns the number of elements in the list.
func (l *LinkedList[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.length
}

// Add inserts element so that it ends up at position index.
// Valid indexes are [0, Len()]; Add(Len(), e) appends.
func (l *LinkedList[T]) Add(index int, element T) error {
	if l == nil {
		return ErrInvalidArgs
	}
	if index < 0 || index > l.length {
		return ErrOutOfBounds
	}

	var prev, next *node[T]
	if index <= l.length/2 {
		next = l.head
		for range index {
			prev = next
			next = next.next
		}
	} else {
		prev = l.tail
		for range l.length - index {
			next = prev
			prev = prev.previous
		}
	}

	n := &node[T]{element: element, previous: prev, next: next}
	if prev != nil {
		prev.next = n
	} else {
		l.head = n
	}
	if next != nil {
		next.previous = n
	} else {
		l.tail = n
	}

	l.length++
	return nil
}

// Remove unlinks the element at index and returns it.
// Valid indexes are [0, Len()).
func (l *LinkedList[T]) Remove(index int) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrInvalidArgs
	}

	n, err := l.nodeAt(index)
	if err != nil {
		return zero, err
	}

	if n.next != nil {
		n.next.previous = n.previous
	} else {
		l.tail = n.previous
	}
	if n.previous != nil {
		n.previous.next = n.next
	} else {
		l.head = n.next
	}

	n.previous, n.next = nil, nil
	l.length--
	return n.element, nil
}

// Get returns the element at index without removing it.
// Valid indexes are [0, Len()).
func (l *LinkedList[T]) Get(index int) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrInvalidArgs
	}

	n, err := l.nodeAt(index)
	if err != nil {
		return zero, err
	}
	return n.element, nil
}

// IndexFunc returns the index of the first element satisfying pred, walking
// from the head, or -1 if there is none.
func (l *LinkedList[T]) IndexFunc(pred func(T) bool) int {
	if l == nil {
		return -1
	}

	i := 0
	for n := l.head; n != nil; n = n.next {
		if pred(n.element) {
			return i
		}
		i++
	}
	return -1
}

// All returns an iterator over index/element pairs from head to tail.
// The list must not be modified while iterating.
func (l *LinkedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		i := 0
		for n := l.head; n != nil; n = n.next {
			if !yield(i, n.element) {
				return
			}
			i++
		}
	}
}

// Clear drops every node and resets the list to empty.
// Elements are left untouched; releasing them is the caller's business.
func (l *LinkedList[T]) Clear() {
	if l == nil {
		return
	}

	for n := l.head; n != nil; {
		next := n.next
		n.previous, n.next = nil, nil
		n = next
	}
	l.head, l.tail, l.length = nil, nil, 0
}

// nodeAt locates the node at index, starting from the closer end.
func (l *LinkedList[T]) nodeAt(index int) (*node[T], error) {
	if index < 0 || index >= l.length {
		return nil, ErrOutOfBounds
	}

	if index < l.length/2 {
		n := l.head
		for range index {
			n = n.next
		}
		return n, nil
	}

	n := l.tail
	for range l.length - index - 1 {
		n = n.previous
	}
	return n, nil
}
