// Package valqueue implements a FIFO queue for values of mixed types that
// avoids boxing the values into interfaces.
//
// A [Queue] maintains one typed lane (a cursor-based ring over a []T, reused
// across drains) per payload type, plus a shared order list that preserves
// strict FIFO across all lanes. Because Go interfaces cannot declare
// type-parameterized methods, the visitor side of the double dispatch is
// pre-bound: a receiver registered via [Bind] is invoked with the original
// static type when [Queue.DequeueOne] reaches that value. The payload itself
// is only ever stored in the typed lane, so no per-item heap allocation
// occurs once the lane and order buffers have warmed up.
//
// Queue is NOT safe for concurrent use. The caller must provide external
// serialization; it is designed as the pending-operation store of a
// single-goroutine dispatcher.
package valqueue

import "reflect"

// Queue is a boxless heterogeneous FIFO.
//
// The zero value is not usable; construct with [New].
type Queue struct {
	// Prevent copying
	_ [0]func()

	// lanes maps a payload type to its *lane[T].
	lanes map[reflect.Type]laneRef

	// order preserves enqueue order across lanes. Each element references
	// the lane holding the corresponding value.
	order []laneRef

	// head is the read cursor into order.
	head int
}

// laneRef is the type-erased view of a *lane[T]. Only lane pointers are
// stored behind it, so no value is ever boxed.
type laneRef interface {
	dispatchOne()
	reset()
}

// lane holds the pending values of a single payload type, in enqueue order.
// It uses a read cursor rather than shifting, and resets cursors once
// drained so the backing array is reused.
type lane[T any] struct {
	vals []T
	head int
	recv func(T)
}

func (l *lane[T]) dispatchOne() {
	v := l.vals[l.head]
	var zero T
	l.vals[l.head] = zero
	l.head++
	if l.head == len(l.vals) {
		l.vals = l.vals[:0]
		l.head = 0
	}
	// recv may re-enter Enqueue; cursors are already advanced.
	if l.recv != nil {
		l.recv(v)
	}
}

func (l *lane[T]) reset() {
	clear(l.vals)
	l.vals = l.vals[:0]
	l.head = 0
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{lanes: make(map[reflect.Type]laneRef)}
}

// Bind registers the receiver invoked when a dequeued value has static type
// T. It replaces any previous receiver for T. Values of a type with no bound
// receiver are silently discarded on dequeue.
func Bind[T any](q *Queue, recv func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if l, ok := q.lanes[t].(*lane[T]); ok {
		l.recv = recv
		return
	}
	q.lanes[t] = &lane[T]{recv: recv}
}

// Enqueue appends a value to the queue.
//
// The value is stored in its typed lane; only a lane pointer enters the
// shared order list, so the value is never boxed.
func Enqueue[T any](q *Queue, v T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	l, ok := q.lanes[t].(*lane[T])
	if !ok {
		l = &lane[T]{}
		q.lanes[t] = l
	}
	l.vals = append(l.vals, v)
	q.order = append(q.order, l)
}

// DequeueOne removes the oldest pending value and delivers it to the
// receiver bound to its type. It returns false if the queue is empty.
//
// The receiver runs after the queue's cursors have been advanced, so it may
// safely enqueue further values; they are appended behind any still pending.
func (q *Queue) DequeueOne() bool {
	if q.head >= len(q.order) {
		return false
	}
	l := q.order[q.head]
	q.order[q.head] = nil
	q.head++
	if q.head == len(q.order) {
		q.order = q.order[:0]
		q.head = 0
	}
	l.dispatchOne()
	return true
}

// Clear discards all pending values without delivering them. Bound
// receivers are retained.
func (q *Queue) Clear() {
	for _, l := range q.lanes {
		l.reset()
	}
	clear(q.order)
	q.order = q.order[:0]
	q.head = 0
}

// Len returns the number of pending values across all lanes.
func (q *Queue) Len() int {
	return len(q.order) - q.head
}
