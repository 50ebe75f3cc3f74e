package observable

import (
	"reflect"

	"github.com/joeycumines/go-observable/valqueue"
	"github.com/joeycumines/logiface"
)

// opKind identifies a deferred internal operation.
type opKind uint8

const (
	opPerformNext opKind = iota
	opAddBinding
	opRemoveBinding
	opClearBindings
	opDispose
)

// internalOp is one entry of the Subject's internal-operation queue. It is a
// plain value so the queue itself never allocates per operation.
type internalOp struct {
	binding *Binding
	kind    opKind
}

// Subject is a single-goroutine serialized dispatch orchestrator.
//
// A Subject accepts mutation requests ("atomic operations") on behalf of an
// owning object, routes each to the owner's handler for the payload's type,
// and lets the owner notify the attached [Binding] set of the resulting
// change via [Broadcast]. At most one invocation chain executes at a time:
// anything requested while the Subject is busy is deferred and drained, in
// FIFO order, by the chain already on the stack. Listeners therefore never
// observe half-applied state, and binding-set membership is frozen for the
// duration of any in-flight broadcast.
//
// The hot path is allocation-free: a payload performed on an idle Subject is
// delivered on the caller's stack, and payloads deferred while busy are held
// in a [valqueue.Queue] typed lane rather than boxed into an interface.
//
// Subject is NOT safe for concurrent use. All operations must be issued from
// a single goroutine; the busy flag is a reentrancy latch, not a mutex.
type Subject struct {
	// Prevent copying
	_ [0]func()

	// bindings is the ordered identity set of live bindings. Structural
	// changes build a fresh slice so a broadcast iterating an older header
	// is never disturbed.
	bindings []*Binding

	// ops is the internal-operation FIFO, consumed via opsHead.
	ops     []internalOp
	opsHead int

	// pending holds deferred atomic-operation payloads, one typed lane per
	// payload type, bound to the owner's handlers.
	pending *valqueue.Queue

	// handlers maps a payload type to the owner's func(T) for it.
	handlers map[reflect.Type]any

	logger *logiface.Logger[logiface.Event]

	busy     bool
	disposed bool
}

// NewSubject creates an idle Subject with no owner handlers and no bindings.
func NewSubject(opts ...SubjectOption) (*Subject, error) {
	cfg, err := resolveSubjectOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Subject{
		pending:  valqueue.New(),
		handlers: make(map[reflect.Type]any),
		logger:   cfg.logger,
	}, nil
}

// Disposed reports whether the Subject has been disposed.
func (s *Subject) Disposed() bool {
	return s.disposed
}

// Busy reports whether a dispatch chain is currently executing.
func (s *Subject) Busy() bool {
	return s.busy
}

// HandleOperation registers the owner's handler for atomic operations of
// type T, replacing any previous handler for T. The handler performs the
// owner's state mutation and may call [Broadcast] (and any other Subject
// operation; requests issued while busy are deferred rather than recursed).
func HandleOperation[T any](s *Subject, fn func(T)) error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	if fn == nil {
		return nil
	}
	s.handlers[reflect.TypeOf((*T)(nil)).Elem()] = fn
	valqueue.Bind(s.pending, fn)
	return nil
}

// Perform requests the atomic operation described by payload.
//
// If the Subject is idle the payload is delivered to the owner's handler on
// the caller's stack, and any work the handler deferred is drained before
// Perform returns. If the Subject is busy the payload is queued and executed
// by the chain already running, strictly after everything requested before
// it; Perform then returns immediately.
//
// A payload type with no registered handler is a no-op.
func Perform[T any](s *Subject, payload T) error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	if s.busy {
		valqueue.Enqueue(s.pending, payload)
		s.ops = append(s.ops, internalOp{kind: opPerformNext})
		return nil
	}
	s.busy = true
	defer func() { s.busy = false }()
	if fn, ok := s.handlers[reflect.TypeOf((*T)(nil)).Elem()].(func(T)); ok {
		fn(payload)
	}
	s.drain()
	return nil
}

// Broadcast delivers payload to every live binding, in attachment order.
//
// Broadcast is intended to be called by the owner from within one of its
// operation handlers, while the Subject is busy. The binding set observed is
// frozen at entry: attach/detach/clear requests raised by callbacks during
// the broadcast are deferred, applied after the last binding has been
// visited, and only affect subsequent broadcasts.
func Broadcast[T any](s *Subject, payload T) error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	prev := s.busy
	s.busy = true
	defer func() { s.busy = prev }()
	t := reflect.TypeOf((*T)(nil)).Elem()
	for _, b := range s.bindings {
		deliver(b, t, payload)
	}
	s.drain()
	return nil
}

// AddBinding attaches b to the Subject. The attachment is applied by the
// processing loop, so a binding added during a broadcast does not observe
// that broadcast. Adding an already-attached binding is a no-op.
//
// AddBinding is called by [NewBinding]; it only needs to be called directly
// for a binding that was previously removed.
func (s *Subject) AddBinding(b *Binding) error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	if b == nil {
		return nil
	}
	s.schedule(internalOp{kind: opAddBinding, binding: b})
	return nil
}

// RemoveBinding detaches b from the Subject. The detachment is applied by
// the processing loop, so a binding removed during a broadcast still
// observes the remainder of that broadcast. Removing an unattached binding
// is a no-op.
func (s *Subject) RemoveBinding(b *Binding) error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	if b == nil {
		return nil
	}
	s.schedule(internalOp{kind: opRemoveBinding, binding: b})
	return nil
}

// ClearBindings detaches every binding, subject to the same deferral rule as
// [Subject.RemoveBinding]. The bindings themselves are not disposed.
func (s *Subject) ClearBindings() error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	s.schedule(internalOp{kind: opClearBindings})
	return nil
}

// Clear discards every queued-but-not-yet-executed atomic operation without
// running it. It cannot cancel an operation already mid-execution, and does
// not touch the binding set.
func (s *Subject) Clear() error {
	if s.disposed {
		return ErrSubjectDisposed
	}
	if n := s.pending.Len(); n > 0 {
		s.logger.Debug().
			Int(`dropped`, n).
			Log(`observable: cleared pending operations`)
	}
	s.pending.Clear()
	return nil
}

// Dispose tears the Subject down: bindings are detached, both queues are
// emptied, the owner's handlers are released, and every subsequent mutating
// operation fails with [ErrSubjectDisposed]. Dispose is idempotent.
//
// If the Subject is busy, teardown is deferred: the processing loop performs
// it as its final step, so a Dispose issued from inside a handler or
// callback does not unwind state out from under the running chain.
func (s *Subject) Dispose() {
	if s.disposed {
		return
	}
	if s.busy {
		s.logger.Debug().Log(`observable: subject disposal deferred`)
		s.ops = append(s.ops, internalOp{kind: opDispose})
		return
	}
	s.teardown()
}

// schedule appends op to the internal-operation queue and, when idle, runs
// the processing loop to apply it. While busy it returns immediately; the
// running loop will pick the op up.
func (s *Subject) schedule(op internalOp) {
	s.ops = append(s.ops, op)
	if s.busy {
		return
	}
	s.busy = true
	defer func() { s.busy = false }()
	s.drain()
}

// drain is the processing loop. It consumes the internal-operation queue in
// FIFO order until empty, or until a dispose marker tears the Subject down.
//
// Callers must hold the busy latch. Handler and callback panics propagate;
// the latch itself is restored by the caller's defer, so an upstream recover
// does not wedge the Subject.
func (s *Subject) drain() {
	for s.opsHead < len(s.ops) {
		op := s.ops[s.opsHead]
		s.ops[s.opsHead] = internalOp{}
		s.opsHead++
		switch op.kind {
		case opPerformNext:
			// Exactly one pending payload, delivered to the owner's
			// handler via its typed lane.
			s.pending.DequeueOne()
		case opAddBinding:
			s.attach(op.binding)
		case opRemoveBinding:
			s.detach(op.binding)
		case opClearBindings:
			s.bindings = nil
		case opDispose:
			s.teardown()
			return
		}
	}
	s.ops = s.ops[:0]
	s.opsHead = 0
}

// attach inserts b at the end of the binding set, if not already present.
func (s *Subject) attach(b *Binding) {
	for _, existing := range s.bindings {
		if existing == b {
			return
		}
	}
	s.bindings = append(s.bindings, b)
}

// detach removes b from the binding set. The surviving bindings are copied
// into a fresh slice; an in-flight broadcast iterating the old header keeps
// its frozen membership.
func (s *Subject) detach(b *Binding) {
	for i, existing := range s.bindings {
		if existing != b {
			continue
		}
		next := make([]*Binding, 0, len(s.bindings)-1)
		next = append(next, s.bindings[:i]...)
		next = append(next, s.bindings[i+1:]...)
		s.bindings = next
		return
	}
}

// teardown performs the actual disposal.
func (s *Subject) teardown() {
	s.logger.Debug().Log(`observable: subject disposed`)
	s.bindings = nil
	s.ops = nil
	s.opsHead = 0
	s.pending.Clear()
	s.handlers = nil
	s.disposed = true
}
