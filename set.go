package observable

// Set atomic operations.
type (
	setAdd[T comparable]    struct{ value T }
	setRemove[T comparable] struct{ value T }
	setClear[T comparable]  struct{}
)

// Set broadcasts.
type (
	// SetAdded is broadcast after a value was added.
	SetAdded[T comparable] struct {
		Value T
	}

	// SetRemoved is broadcast after a value was removed.
	SetRemoved[T comparable] struct {
		Value T
	}

	// SetCleared is broadcast after a non-empty set was emptied.
	SetCleared[T comparable] struct{}
)

// Set is an observable unordered collection of unique values. Adding a
// value already present, or removing one that is absent, is a silent no-op
// with no broadcast.
type Set[T comparable] struct {
	subject *Subject
	items   map[T]struct{}
}

// NewSet creates an empty observable set.
func NewSet[T comparable](opts ...SubjectOption) (*Set[T], error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	set := &Set[T]{subject: s, items: make(map[T]struct{})}
	for _, err := range []error{
		HandleOperation(s, set.applyAdd),
		HandleOperation(s, set.applyRemove),
		HandleOperation(s, set.applyClear),
	} {
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *Set[T]) applyAdd(op setAdd[T]) {
	if _, ok := s.items[op.value]; ok {
		return
	}
	s.items[op.value] = struct{}{}
	_ = Broadcast(s.subject, SetAdded[T]{Value: op.value})
}

func (s *Set[T]) applyRemove(op setRemove[T]) {
	if _, ok := s.items[op.value]; !ok {
		return
	}
	delete(s.items, op.value)
	_ = Broadcast(s.subject, SetRemoved[T]{Value: op.value})
}

func (s *Set[T]) applyClear(setClear[T]) {
	if len(s.items) == 0 {
		return
	}
	clear(s.items)
	_ = Broadcast(s.subject, SetCleared[T]{})
}

// Add requests value be added.
func (s *Set[T]) Add(value T) error {
	return Perform(s.subject, setAdd[T]{value: value})
}

// Remove requests value be removed.
func (s *Set[T]) Remove(value T) error {
	return Perform(s.subject, setRemove[T]{value: value})
}

// Clear requests the set be emptied.
func (s *Set[T]) Clear() error {
	return Perform(s.subject, setClear[T]{})
}

// Contains reports whether value is currently present. Reads are immediate
// and do not observe deferred mutations.
func (s *Set[T]) Contains(value T) bool {
	_, ok := s.items[value]
	return ok
}

// Len returns the current size.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Snapshot returns the current contents in unspecified order.
func (s *Set[T]) Snapshot() []T {
	out := make([]T, 0, len(s.items))
	for v := range s.items {
		out = append(out, v)
	}
	return out
}

// Bind attaches a new [SetBinding] to the set.
func (s *Set[T]) Bind() (*SetBinding[T], error) {
	b, err := NewBinding(s.subject)
	if err != nil {
		return nil, err
	}
	return &SetBinding[T]{Binding: b}, nil
}

// ClearBindings detaches all bindings from the set.
func (s *Set[T]) ClearBindings() error {
	return s.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (s *Set[T]) Dispose() {
	s.subject.Dispose()
}

// SetBinding registers callbacks against a [Set].
type SetBinding[T comparable] struct {
	*Binding
}

// OnAdded invokes fn for every addition broadcast.
func (b *SetBinding[T]) OnAdded(fn func(SetAdded[T]), predicates ...func(SetAdded[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnRemoved invokes fn for every removal broadcast.
func (b *SetBinding[T]) OnRemoved(fn func(SetRemoved[T]), predicates ...func(SetRemoved[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnCleared invokes fn whenever the set was emptied.
func (b *SetBinding[T]) OnCleared(fn func(SetCleared[T]), predicates ...func(SetCleared[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}
