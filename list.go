package observable

import "fmt"

// List atomic operations. Each is a distinct type even where structurally
// similar to its broadcast, because the broadcast may carry a different
// shape than the request (e.g. a replace broadcasts old and new).
type (
	listAdd[T comparable]      struct{ value T }
	listInsert[T comparable]   struct {
		index int
		value T
	}
	listSet[T comparable] struct {
		index int
		value T
	}
	listRemoveAt[T comparable] struct{ index int }
	listRemove[T comparable]   struct{ value T }
	listClear[T comparable]    struct{}
)

// List broadcasts.
type (
	// ListAdded is broadcast after an element was appended or inserted.
	ListAdded[T comparable] struct {
		Index int
		Value T
	}

	// ListRemoved is broadcast after an element was removed.
	ListRemoved[T comparable] struct {
		Index int
		Value T
	}

	// ListReplaced is broadcast after an element was overwritten in place.
	ListReplaced[T comparable] struct {
		Index int
		Old   T
		New   T
	}

	// ListCleared is broadcast after a non-empty list was emptied.
	ListCleared[T comparable] struct{}
)

// List is an observable ordered collection. Mutations are serialized through
// the list's Subject; an index that is out of range when its operation
// executes panics with a [*RangeError], which propagates out of the call
// that triggered the dispatch.
type List[T comparable] struct {
	subject *Subject
	items   []T
}

// NewList creates an empty observable list.
func NewList[T comparable](opts ...SubjectOption) (*List[T], error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	l := &List[T]{subject: s}
	for _, err := range []error{
		HandleOperation(s, l.applyAdd),
		HandleOperation(s, l.applyInsert),
		HandleOperation(s, l.applySet),
		HandleOperation(s, l.applyRemoveAt),
		HandleOperation(s, l.applyRemove),
		HandleOperation(s, l.applyClear),
	} {
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List[T]) checkIndex(i, limit int) {
	if i < 0 || i >= limit {
		panic(&RangeError{Message: fmt.Sprintf("observable: list index %d out of range [0,%d)", i, limit)})
	}
}

func (l *List[T]) applyAdd(op listAdd[T]) {
	l.items = append(l.items, op.value)
	_ = Broadcast(l.subject, ListAdded[T]{Index: len(l.items) - 1, Value: op.value})
}

func (l *List[T]) applyInsert(op listInsert[T]) {
	// Inserting at len appends.
	l.checkIndex(op.index, len(l.items)+1)
	l.items = append(l.items, op.value)
	copy(l.items[op.index+1:], l.items[op.index:])
	l.items[op.index] = op.value
	_ = Broadcast(l.subject, ListAdded[T]{Index: op.index, Value: op.value})
}

func (l *List[T]) applySet(op listSet[T]) {
	l.checkIndex(op.index, len(l.items))
	old := l.items[op.index]
	l.items[op.index] = op.value
	_ = Broadcast(l.subject, ListReplaced[T]{Index: op.index, Old: old, New: op.value})
}

func (l *List[T]) applyRemoveAt(op listRemoveAt[T]) {
	l.checkIndex(op.index, len(l.items))
	l.removeAt(op.index)
}

func (l *List[T]) applyRemove(op listRemove[T]) {
	for i, v := range l.items {
		if v == op.value {
			l.removeAt(i)
			return
		}
	}
	// Absent value: silent no-op.
}

func (l *List[T]) removeAt(i int) {
	removed := l.items[i]
	copy(l.items[i:], l.items[i+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	_ = Broadcast(l.subject, ListRemoved[T]{Index: i, Value: removed})
}

func (l *List[T]) applyClear(listClear[T]) {
	if len(l.items) == 0 {
		return
	}
	clear(l.items)
	l.items = l.items[:0]
	_ = Broadcast(l.subject, ListCleared[T]{})
}

// Add requests value be appended.
func (l *List[T]) Add(value T) error {
	return Perform(l.subject, listAdd[T]{value: value})
}

// Insert requests value be inserted before index (index may equal the
// length at execution time, which appends).
func (l *List[T]) Insert(index int, value T) error {
	return Perform(l.subject, listInsert[T]{index: index, value: value})
}

// Set requests the element at index be replaced with value.
func (l *List[T]) Set(index int, value T) error {
	return Perform(l.subject, listSet[T]{index: index, value: value})
}

// RemoveAt requests the element at index be removed.
func (l *List[T]) RemoveAt(index int) error {
	return Perform(l.subject, listRemoveAt[T]{index: index})
}

// Remove requests the first occurrence of value be removed. A value not
// present when the operation executes is a silent no-op; the outcome cannot
// be reported because execution may be deferred.
func (l *List[T]) Remove(value T) error {
	return Perform(l.subject, listRemove[T]{value: value})
}

// Clear requests the list be emptied. An already-empty list is a silent
// no-op (no broadcast).
func (l *List[T]) Clear() error {
	return Perform(l.subject, listClear[T]{})
}

// Get returns the element at index, panicking with a [*RangeError] if out
// of range. Reads are immediate and do not observe deferred mutations.
func (l *List[T]) Get(index int) T {
	l.checkIndex(index, len(l.items))
	return l.items[index]
}

// Len returns the current length.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Snapshot returns a copy of the current contents.
func (l *List[T]) Snapshot() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Bind attaches a new [ListBinding] to the list.
func (l *List[T]) Bind() (*ListBinding[T], error) {
	b, err := NewBinding(l.subject)
	if err != nil {
		return nil, err
	}
	return &ListBinding[T]{Binding: b}, nil
}

// ClearBindings detaches all bindings from the list.
func (l *List[T]) ClearBindings() error {
	return l.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (l *List[T]) Dispose() {
	l.subject.Dispose()
}

// ListBinding registers callbacks against a [List].
type ListBinding[T comparable] struct {
	*Binding
}

// OnAdded invokes fn for every append/insert broadcast.
func (b *ListBinding[T]) OnAdded(fn func(ListAdded[T]), predicates ...func(ListAdded[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnRemoved invokes fn for every removal broadcast.
func (b *ListBinding[T]) OnRemoved(fn func(ListRemoved[T]), predicates ...func(ListRemoved[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnReplaced invokes fn for every in-place replacement broadcast.
func (b *ListBinding[T]) OnReplaced(fn func(ListReplaced[T]), predicates ...func(ListReplaced[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnCleared invokes fn whenever the list was emptied.
func (b *ListBinding[T]) OnCleared(fn func(ListCleared[T]), predicates ...func(ListCleared[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}
