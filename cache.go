package observable

import "reflect"

// cacheStore is the atomic operation storing a value under its static type.
type cacheStore[T any] struct {
	value T
}

// cacheClear is the atomic operation emptying the cache.
type cacheClear struct{}

// CacheStored is broadcast after a value was stored in a [Cache]. Replaced
// reports whether a previous value of the same type was overwritten (Old is
// the zero value otherwise).
type CacheStored[T any] struct {
	Old      T
	New      T
	Replaced bool
}

// CacheCleared is broadcast after a non-empty [Cache] was emptied.
type CacheCleared struct{}

// cacheCell is the heap-owned storage for one type. The cell pointer is
// stable across stores, so repeated stores of the same type do not allocate.
type cacheCell[T any] struct {
	value T
}

// Cache is an observable type-keyed store with last-write-wins semantics per
// exact static type. Storage is an explicit map from type identifier to a
// heap-owned cell; types are never used as process-wide static storage keys.
//
// Because the payload types are open-ended, operation handlers are
// registered lazily, the first time a type is stored via [Store].
type Cache struct {
	subject    *Subject
	cells      map[reflect.Type]any
	registered map[reflect.Type]bool
}

// NewCache creates an empty type-keyed cache.
func NewCache(opts ...SubjectOption) (*Cache, error) {
	s, err := NewSubject(opts...)
	if err != nil {
		return nil, err
	}
	c := &Cache{
		subject:    s,
		cells:      make(map[reflect.Type]any),
		registered: make(map[reflect.Type]bool),
	}
	if err := HandleOperation(s, c.applyClear); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) applyClear(cacheClear) {
	if len(c.cells) == 0 {
		return
	}
	clear(c.cells)
	_ = Broadcast(c.subject, CacheCleared{})
}

// ensureHandler lazily registers the store handler for type T.
func ensureHandler[T any](c *Cache) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if c.registered[t] {
		return nil
	}
	if err := HandleOperation(c.subject, func(op cacheStore[T]) {
		var old T
		replaced := false
		cell, _ := c.cells[t].(*cacheCell[T])
		if cell != nil {
			old = cell.value
			replaced = true
			cell.value = op.value
		} else {
			c.cells[t] = &cacheCell[T]{value: op.value}
		}
		_ = Broadcast(c.subject, CacheStored[T]{Old: old, New: op.value, Replaced: replaced})
	}); err != nil {
		return err
	}
	c.registered[t] = true
	return nil
}

// Store requests value be stored under its static type T, replacing any
// previous value of exactly that type.
func Store[T any](c *Cache, value T) error {
	if err := ensureHandler[T](c); err != nil {
		return err
	}
	return Perform(c.subject, cacheStore[T]{value: value})
}

// Load returns the value currently stored under exactly type T. Reads are
// immediate and do not observe deferred stores.
func Load[T any](c *Cache) (T, bool) {
	if cell, ok := c.cells[reflect.TypeOf((*T)(nil)).Elem()].(*cacheCell[T]); ok {
		return cell.value, true
	}
	var zero T
	return zero, false
}

// Clear requests the cache be emptied.
func (c *Cache) Clear() error {
	return Perform(c.subject, cacheClear{})
}

// Len returns the number of stored types.
func (c *Cache) Len() int {
	return len(c.cells)
}

// Bind attaches a new [CacheBinding] to the cache.
func (c *Cache) Bind() (*CacheBinding, error) {
	b, err := NewBinding(c.subject)
	if err != nil {
		return nil, err
	}
	return &CacheBinding{Binding: b}, nil
}

// ClearBindings detaches all bindings from the cache.
func (c *Cache) ClearBindings() error {
	return c.subject.ClearBindings()
}

// Dispose disposes the underlying Subject. Idempotent.
func (c *Cache) Dispose() {
	c.subject.Dispose()
}

// CacheBinding registers callbacks against a [Cache]. Per-type registration
// goes through the package-level [OnStored], since Go methods cannot carry
// their own type parameters.
type CacheBinding struct {
	*Binding
}

// OnStored invokes fn for every store broadcast of type T.
func OnStored[T any](b *CacheBinding, fn func(CacheStored[T]), predicates ...func(CacheStored[T]) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}

// OnCleared invokes fn whenever the cache was emptied.
func (b *CacheBinding) OnCleared(fn func(CacheCleared), predicates ...func(CacheCleared) bool) error {
	return AddCallback(b.Binding, fn, predicates...)
}
