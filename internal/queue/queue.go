// Package queue implements a growable FIFO ring buffer.
package queue

const minCapacity = 4

// Queue is a FIFO of values. The zero Queue is ready to use.
// Capacity is always a power of two, so positions wrap with a mask.
type Queue[T any] struct {
	items      []T
	head, tail int
	count      int
}

// New creates queue containing items in order.
func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{items: make([]T, capacityFor(len(items)))}
	copy(q.items, items)
	q.tail = len(items) & q.mask()
	q.count = len(items)
	return q
}

func (q *Queue[T]) mask() int {
	return len(q.items) - 1
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return q.count
}

// IsEmpty tells whether the queue contains no values.
func (q *Queue[T]) IsEmpty() bool {
	return q.count == 0
}

// Push appends v to the tail.
func (q *Queue[T]) Push(v T) *Queue[T] {
	if q.count == len(q.items) {
		q.resize(capacityFor(q.count + 1))
	}
	q.items[q.tail] = v
	q.tail = (q.tail + 1) & q.mask()
	q.count++
	return q
}

// Shift removes and returns the value at the head. Returns false if the queue is empty.
func (q *Queue[T]) Shift() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & q.mask()
	q.count--

	if len(q.items) > minCapacity && q.count<<2 <= len(q.items) {
		q.resize(len(q.items) >> 1)
	}
	return v, true
}

// Peek returns the value at the head without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// Items returns a copy of queued values in order.
func (q *Queue[T]) Items() []T {
	result := make([]T, q.count)
	if q.count == 0 {
		return result
	}
	if q.head < q.tail {
		copy(result, q.items[q.head:q.tail])
	} else {
		n := copy(result, q.items[q.head:])
		copy(result[n:], q.items[:q.tail])
	}
	return result
}

// Drain removes all values and returns them in order.
func (q *Queue[T]) Drain() []T {
	result := q.Items()
	clear(q.items)
	q.head, q.tail, q.count = 0, 0, 0
	return result
}

func (q *Queue[T]) resize(capacity int) {
	items := q.Items()
	q.items = make([]T, capacity)
	copy(q.items, items)
	q.head = 0
	q.tail = q.count & q.mask()
}

// capacityFor returns the least power of two not less than n and minCapacity.
func capacityFor(n int) int {
	c := minCapacity
	for c < n {
		c <<= 1
	}
	return c
}
