package observable

// valueSet is the atomic operation requesting a new value.
type valueSet[T comparable] struct {
	value T
}

// valueSync is the atomic operation replaying the current value to a single
// newly registered callback, through the serialized path.
type valueSync[T comparable] struct {
	fn func(ValueChanged[T])
}

// ValueChanged is broadcast after a [Value] actually changed. For a sync
// replay, Old and New both carry the current value.
type ValueChanged[T comparable] struct {
	Old T
	New T
}

// Value is an observable single value. Writes are serialized through the
// value's Subject; a write that does not change the value broadcasts
// nothing.
type Value[T comparable] struct {
	subject *Subject
	current T
}

// NewValue creates an observable value holding initial.
func NewValue[T comparable](initial T, opts ...SubjectOption) (*Value[T], error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	v := &Value[T]{subject: s, current: initial}
	if err := HandleOperation(s, v.applySet); err != nil {
		return nil, err
	}
	if err := HandleOperation(s, v.applySync); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Value[T]) applySet(op valueSet[T]) {
	if op.value == v.current {
		return
	}
	old := v.current
	v.current = op.value
	_ = Broadcast(v.subject, ValueChanged[T]{Old: old, New: op.value})
}

func (v *Value[T]) applySync(op valueSync[T]) {
	op.fn(ValueChanged[T]{Old: v.current, New: v.current})
}

// Get returns the current value. Reads are immediate; a Set issued while a
// dispatch chain is running is not visible until that chain drains.
func (v *Value[T]) Get() T {
	return v.current
}

// Set requests the value be changed. Equal values are a silent no-op (no
// broadcast).
func (v *Value[T]) Set(value T) error {
	return Perform(v.subject, valueSet[T]{value: value})
}

// CompareAndSet cannot be supported: whether the swap occurred depends on
// state that may only settle after deferred operations drain. It always
// fails with [ErrUnsupportedOperation]; issue a plain [Value.Set], or decide
// inside a bound callback.
func (v *Value[T]) CompareAndSet(old, new T) (bool, error) {
	return false, ErrUnsupportedOperation
}

// Bind attaches a new [ValueBinding] to the value.
func (v *Value[T]) Bind() (*ValueBinding[T], error) {
	b, err := NewBinding(v.subject)
	if err != nil {
		return nil, err
	}
	return &ValueBinding[T]{Binding: b, value: v}, nil
}

// ClearBindings detaches all bindings from the value.
func (v *Value[T]) ClearBindings() error {
	return v.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (v *Value[T]) Dispose() {
	v.subject.Dispose()
}

// ValueBinding registers callbacks against a [Value].
type ValueBinding[T comparable] struct {
	*Binding
	value *Value[T]
}

// OnChanged invokes fn for every change broadcast, optionally gated by
// predicates over the change.
func (b *ValueBinding[T]) OnChanged(fn func(ValueChanged[T]), predicates ...func(ValueChanged[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnChangedSync behaves like [ValueBinding.OnChanged], and additionally
// replays the current value to fn exactly once, via a sync operation on the
// same serialized path, so the replay cannot bypass ordering guarantees.
func (b *ValueBinding[T]) OnChangedSync(fn func(ValueChanged[T]), predicates ...func(ValueChanged[T]) bool) error {
	if err := AddCallback(b.Binding, fn, predicates...); err != nil {
		return err
	}
	replay := fn
	if len(predicates) > 0 {
		preds := predicates
		replay = func(c ValueChanged[T]) {
			for _, p := range preds {
				if p != nil && !p(c) {
					return
				}
			}
			fn(c)
		}
	}
	return Perform(b.value.subject, valueSync[T]{fn: replay})
}
