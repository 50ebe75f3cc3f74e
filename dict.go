package observable

// Dict atomic operations.
type (
	dictSet[K comparable, V any] struct {
		key   K
		value V
	}
	dictDelete[K comparable, V any] struct{ key K }
	dictClear[K comparable, V any]  struct{}
)

// Dict broadcasts.
type (
	// DictAdded is broadcast after a value was stored under a new key.
	DictAdded[K comparable, V any] struct {
		Key   K
		Value V
	}

	// DictUpdated is broadcast after a value was stored under an existing
	// key. Values are not compared (V is unconstrained), so storing an
	// equal value still broadcasts.
	DictUpdated[K comparable, V any] struct {
		Key K
		Old V
		New V
	}

	// DictRemoved is broadcast after a key was deleted.
	DictRemoved[K comparable, V any] struct {
		Key   K
		Value V
	}

	// DictCleared is broadcast after a non-empty dict was emptied.
	DictCleared[K comparable, V any] struct{}
)

// Dict is an observable map. Deleting a missing key is a silent no-op with
// no broadcast.
type Dict[K comparable, V any] struct {
	subject *Subject
	items   map[K]V
}

// NewDict creates an empty observable map.
func NewDict[K comparable, V any](opts ...SubjectOption) (*Dict[K, V], error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	d := &Dict[K, V]{subject: s, items: make(map[K]V)}
	for _, err := range []error{
		HandleOperation(s, d.applySet),
		HandleOperation(s, d.applyDelete),
		HandleOperation(s, d.applyClear),
	} {
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dict[K, V]) applySet(op dictSet[K, V]) {
	old, existed := d.items[op.key]
	d.items[op.key] = op.value
	if existed {
		_ = Broadcast(d.subject, DictUpdated[K, V]{Key: op.key, Old: old, New: op.value})
	} else {
		_ = Broadcast(d.subject, DictAdded[K, V]{Key: op.key, Value: op.value})
	}
}

func (d *Dict[K, V]) applyDelete(op dictDelete[K, V]) {
	old, existed := d.items[op.key]
	if !existed {
		return
	}
	delete(d.items, op.key)
	_ = Broadcast(d.subject, DictRemoved[K, V]{Key: op.key, Value: old})
}

func (d *Dict[K, V]) applyClear(dictClear[K, V]) {
	if len(d.items) == 0 {
		return
	}
	clear(d.items)
	_ = Broadcast(d.subject, DictCleared[K, V]{})
}

// Set requests value be stored under key.
func (d *Dict[K, V]) Set(key K, value V) error {
	return Perform(d.subject, dictSet[K, V]{key: key, value: value})
}

// Delete requests key be removed.
func (d *Dict[K, V]) Delete(key K) error {
	return Perform(d.subject, dictDelete[K, V]{key: key})
}

// Take cannot be supported: the removed value depends on state that may
// only settle after deferred operations drain. It always fails with
// [ErrUnsupportedOperation]; use [Dict.Get] plus [Dict.Delete], or observe
// [DictRemoved] through a binding.
func (d *Dict[K, V]) Take(key K) (V, error) {
	var zero V
	return zero, ErrUnsupportedOperation
}

// Clear requests the dict be emptied.
func (d *Dict[K, V]) Clear() error {
	return Perform(d.subject, dictClear[K, V]{})
}

// Get returns the value stored under key. Reads are immediate and do not
// observe deferred mutations.
func (d *Dict[K, V]) Get(key K) (V, bool) {
	v, ok := d.items[key]
	return v, ok
}

// Len returns the current size.
func (d *Dict[K, V]) Len() int {
	return len(d.items)
}

// Bind attaches a new [DictBinding] to the dict.
func (d *Dict[K, V]) Bind() (*DictBinding[K, V], error) {
	b, err := NewBinding(d.subject)
	if err != nil {
		return nil, err
	}
	return &DictBinding[K, V]{Binding: b}, nil
}

// ClearBindings detaches all bindings from the dict.
func (d *Dict[K, V]) ClearBindings() error {
	return d.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (d *Dict[K, V]) Dispose() {
	d.subject.Dispose()
}

// DictBinding registers callbacks against a [Dict].
type DictBinding[K comparable, V any] struct {
	*Binding
}

// OnAdded invokes fn for every new-key broadcast.
func (b *DictBinding[K, V]) OnAdded(fn func(DictAdded[K, V]), predicates ...func(DictAdded[K, V]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnUpdated invokes fn for every existing-key overwrite broadcast.
func (b *DictBinding[K, V]) OnUpdated(fn func(DictUpdated[K, V]), predicates ...func(DictUpdated[K, V]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnRemoved invokes fn for every deletion broadcast.
func (b *DictBinding[K, V]) OnRemoved(fn func(DictRemoved[K, V]), predicates ...func(DictRemoved[K, V]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnCleared invokes fn whenever the dict was emptied.
func (b *DictBinding[K, V]) OnCleared(fn func(DictCleared[K, V]), predicates ...func(DictCleared[K, V]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}
