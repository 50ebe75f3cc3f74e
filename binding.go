package observable

import "reflect"

// callbackEntry pairs a callback with its registration-time predicates. The
// callback is invoked only when every predicate accepts the payload.
type callbackEntry[T any] struct {
	fn    func(T)
	preds []func(T) bool
}

// callbackSlot is the ordered callback list for one payload type. It is
// stored type-erased in the Binding's registry and recovered by a single
// pointer type assertion; the payloads themselves are never boxed.
type callbackSlot[T any] struct {
	entries []callbackEntry[T]
}

// Binding is a per-subscriber registry of typed, predicate-gated callbacks,
// attached to exactly one [Subject] for its lifetime.
//
// Callbacks registered for the same payload type are invoked in registration
// order. No ordering is implied between callbacks of different types.
//
// A Binding does not guard against reentry; the owning Subject serializes
// all delivery. Invoking a Binding outside the Subject's dispatch has no
// ordering guarantees.
type Binding struct {
	// Prevent copying
	_ [0]func()

	// subject is the back-reference, held only while the Binding is alive.
	subject *Subject

	// registry maps a payload type to its *callbackSlot[T].
	registry map[reflect.Type]any

	disposed bool
}

// NewBinding creates a Binding and registers it with s. It fails with
// [ErrSubjectDisposed] if s has already been disposed.
//
// Registration follows the Subject's deferred-mutation rule: a Binding
// created during a broadcast does not observe that broadcast.
func NewBinding(s *Subject) (*Binding, error) {
	if s.disposed {
		return nil, ErrSubjectDisposed
	}
	b := &Binding{
		subject:  s,
		registry: make(map[reflect.Type]any),
	}
	if err := s.AddBinding(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddCallback appends a callback for payloads of type T, gated by the given
// predicates (all must accept; none means always invoke). A nil callback is
// ignored.
func AddCallback[T any](b *Binding, fn func(T), predicates ...func(T) bool) error {
	if b.disposed {
		return ErrBindingDisposed
	}
	if fn == nil {
		return nil
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	slot, _ := b.registry[t].(*callbackSlot[T])
	if slot == nil {
		slot = &callbackSlot[T]{}
		b.registry[t] = slot
	}
	var preds []func(T) bool
	if len(predicates) > 0 {
		preds = make([]func(T) bool, 0, len(predicates))
		for _, p := range predicates {
			if p != nil {
				preds = append(preds, p)
			}
		}
	}
	slot.entries = append(slot.entries, callbackEntry[T]{fn: fn, preds: preds})
	return nil
}

// InvokeCallbacks invokes every callback registered on b for type T whose
// predicates accept payload, in registration order. A type with no
// registered callbacks is a no-op.
//
// This is the entry point the Subject uses during [Broadcast]; it is
// exported so consumers can deliver payloads through bindings they manage
// themselves.
func InvokeCallbacks[T any](b *Binding, payload T) error {
	if b.disposed {
		return ErrBindingDisposed
	}
	deliver(b, reflect.TypeOf((*T)(nil)).Elem(), payload)
	return nil
}

// deliver runs b's callbacks for payload. Disposed bindings are skipped
// silently: a binding disposed mid-chain may still be referenced by an
// in-flight broadcast's frozen membership.
func deliver[T any](b *Binding, t reflect.Type, payload T) {
	if b.disposed {
		return
	}
	slot, _ := b.registry[t].(*callbackSlot[T])
	if slot == nil {
		return
	}
	// Slice header snapshot: callbacks appended during delivery are not
	// visible to this pass.
	entries := slot.entries
	for i := range entries {
		e := &entries[i]
		accepted := true
		for _, p := range e.preds {
			if !p(payload) {
				accepted = false
				break
			}
		}
		if accepted {
			e.fn(payload)
		}
	}
}

// Disposed reports whether the Binding has been disposed.
func (b *Binding) Disposed() bool {
	return b.disposed
}

// Dispose clears the registry, unregisters from the Subject, and releases
// the Subject reference. It is idempotent and safe to call from inside a
// callback: the unregistration goes through the Subject's deferred remove,
// so an in-flight broadcast is not disturbed (though this Binding itself
// stops receiving immediately).
func (b *Binding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.registry = nil
	if s := b.subject; s != nil {
		b.subject = nil
		// A disposed Subject has already dropped its binding set.
		_ = s.RemoveBinding(b)
	}
}
