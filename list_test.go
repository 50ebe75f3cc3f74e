package observable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestList_AddInsertSetRemove(t *testing.T) {
	l, err := NewList[string]()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Dispose()

	b, err := l.Bind()
	if err != nil {
		t.Fatal(err)
	}
	var log []any
	if err := b.OnAdded(func(e ListAdded[string]) { log = append(log, e) }); err != nil {
		t.Fatal(err)
	}
	if err := b.OnRemoved(func(e ListRemoved[string]) { log = append(log, e) }); err != nil {
		t.Fatal(err)
	}
	if err := b.OnReplaced(func(e ListReplaced[string]) { log = append(log, e) }); err != nil {
		t.Fatal(err)
	}

	if err := l.Add("a"); err != nil {
		t.Fatal(err)
	}
	if err := l.Add("c"); err != nil {
		t.Fatal(err)
	}
	if err := l.Insert(1, "b"); err != nil {
		t.Fatal(err)
	}
	if err := l.Set(2, "C"); err != nil {
		t.Fatal(err)
	}
	if err := l.RemoveAt(0); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"b", "C"}, l.Snapshot()); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
	want := []any{
		ListAdded[string]{Index: 0, Value: "a"},
		ListAdded[string]{Index: 1, Value: "c"},
		ListAdded[string]{Index: 1, Value: "b"},
		ListReplaced[string]{Index: 2, Old: "c", New: "C"},
		ListRemoved[string]{Index: 0, Value: "a"},
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("broadcast log mismatch (-want +got):\n%s", diff)
	}
}

func TestList_RemoveFirstOccurrence(t *testing.T) {
	l, err := NewList[int]()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Dispose()

	for _, v := range []int{1, 2, 1} {
		if err := l.Add(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Remove(1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 1}, l.Snapshot()); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}

	// Absent value: silent no-op, no broadcast.
	b, err := l.Bind()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	if err := b.OnRemoved(func(ListRemoved[int]) { count++ }); err != nil {
		t.Fatal(err)
	}
	if err := l.Remove(99); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("missing-value Remove broadcast %d times", count)
	}
}

func TestList_Clear(t *testing.T) {
	l, err := NewList[int]()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Dispose()

	b, err := l.Bind()
	if err != nil {
		t.Fatal(err)
	}
	cleared := 0
	if err := b.OnCleared(func(ListCleared[int]) { cleared++ }); err != nil {
		t.Fatal(err)
	}

	// Clearing an empty list is silent.
	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}
	if cleared != 0 {
		t.Fatal("empty Clear broadcast")
	}

	if err := l.Add(1); err != nil {
		t.Fatal(err)
	}
	if err := l.Clear(); err != nil {
		t.Fatal(err)
	}
	if cleared != 1 {
		t.Errorf("cleared = %d, want 1", cleared)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after Clear", l.Len())
	}
}

func TestList_OutOfRangePanics(t *testing.T) {
	l, err := NewList[int]()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Dispose()
	if err := l.Add(1); err != nil {
		t.Fatal(err)
	}

	for name, fn := range map[string]func() error{
		"Set":      func() error { return l.Set(5, 9) },
		"RemoveAt": func() error { return l.RemoveAt(-1) },
		"Insert":   func() error { return l.Insert(3, 9) },
	} {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("%s: expected panic", name)
					return
				}
				var re *RangeError
				if err, ok := r.(error); !ok || !errors.As(err, &re) {
					t.Errorf("%s: expected *RangeError, got %v", name, r)
				}
			}()
			_ = fn()
		}()
	}

	// The subject must remain usable after the propagated panics.
	if err := l.Add(2); err != nil {
		t.Fatalf("list unusable after range panic: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, l.Snapshot()); diff != "" {
		t.Errorf("contents mismatch (-want +got):\n%s", diff)
	}
}

func TestList_PredicateFiltering(t *testing.T) {
	l, err := NewList[int]()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Dispose()

	b, err := l.Bind()
	if err != nil {
		t.Fatal(err)
	}
	var big []int
	if err := b.OnAdded(
		func(e ListAdded[int]) { big = append(big, e.Value) },
		func(e ListAdded[int]) bool { return e.Value >= 10 },
	); err != nil {
		t.Fatal(err)
	}

	for _, v := range []int{1, 10, 2, 20} {
		if err := l.Add(v); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]int{10, 20}, big); diff != "" {
		t.Errorf("filtered values mismatch (-want +got):\n%s", diff)
	}
}
