package persist

// Queue is a persistent FIFO queue. It keeps a front list in pop order and a
// back list in reverse push order; when the front runs dry the back is
// reversed into a fresh front. Lists are never mutated, so every Queue value
// stays valid after later pushes or pops on values derived from it.
//
// The zero value is an empty queue.
type Queue[T any] struct {
	front *cell[T]
	back  *cell[T]
	n     int
}

type cell[T any] struct {
	head T
	tail *cell[T]
}

// Len returns the number of queued items.
func (q Queue[T]) Len() int {
	return q.n
}

// Empty reports whether the queue holds no items.
func (q Queue[T]) Empty() bool {
	return q.n == 0
}

// Push returns a queue with v appended at the back.
func (q Queue[T]) Push(v T) Queue[T] {
	return Queue[T]{front: q.front, back: &cell[T]{head: v, tail: q.back}, n: q.n + 1}
}

// Pop returns the front item and the queue without it. ok is false when the
// queue is empty.
func (q Queue[T]) Pop() (v T, rest Queue[T], ok bool) {
	front, back := q.front, q.back
	if front == nil {
		for c := back; c != nil; c = c.tail {
			front = &cell[T]{head: c.head, tail: front}
		}
		back = nil
	}
	if front == nil {
		return v, q, false
	}
	return front.head, Queue[T]{front: front.tail, back: back, n: q.n - 1}, true
}
