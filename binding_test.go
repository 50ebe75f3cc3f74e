package observable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestBinding_RegistrationOrder verifies callbacks for one payload type run
// in registration order.
func TestBinding_RegistrationOrder(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}

	var log []int
	if err := AddCallback(b, func(v int) { log = append(log, v) }); err != nil {
		t.Fatal(err)
	}
	if err := AddCallback(b, func(v int) { log = append(log, v*2) }); err != nil {
		t.Fatal(err)
	}
	if err := AddCallback(b, func(v int) { log = append(log, v*3) }); err != nil {
		t.Fatal(err)
	}

	if err := InvokeCallbacks(b, 2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 4, 6}, log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

// TestBinding_Predicates verifies a callback with predicates only runs when
// every predicate accepts the payload.
func TestBinding_Predicates(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}

	var seen []int
	if err := AddCallback(b, func(v int) { seen = append(seen, v) },
		func(v int) bool { return v > 0 },
		func(v int) bool { return v%2 == 0 },
	); err != nil {
		t.Fatal(err)
	}

	for _, v := range []int{-2, 1, 2, 3, 4} {
		if err := InvokeCallbacks(b, v); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]int{2, 4}, seen); diff != "" {
		t.Errorf("seen mismatch (-want +got):\n%s", diff)
	}
}

// TestBinding_MissingTypeNoOp verifies invoking a type with no registered
// callbacks is a no-op, not an error.
func TestBinding_MissingTypeNoOp(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}
	if err := InvokeCallbacks(b, "nobody listens"); err != nil {
		t.Fatal(err)
	}
}

// TestBinding_NoCrossTypeDelivery verifies payloads only reach callbacks
// registered for exactly their type.
func TestBinding_NoCrossTypeDelivery(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}

	var ints, strs int
	if err := AddCallback(b, func(int) { ints++ }); err != nil {
		t.Fatal(err)
	}
	if err := AddCallback(b, func(string) { strs++ }); err != nil {
		t.Fatal(err)
	}

	if err := InvokeCallbacks(b, 7); err != nil {
		t.Fatal(err)
	}
	if ints != 1 || strs != 0 {
		t.Errorf("got ints=%d strs=%d, want 1/0", ints, strs)
	}
}

// TestBinding_DisposeIdempotent verifies Dispose is idempotent and detaches
// the binding from its Subject.
func TestBinding_DisposeIdempotent(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	if err := HandleOperation(s, func(op testOp) {
		_ = Broadcast(s, testNote{n: op.n})
	}); err != nil {
		t.Fatal(err)
	}

	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	if err := AddCallback(b, func(testNote) { count++ }); err != nil {
		t.Fatal(err)
	}

	b.Dispose()
	if !b.Disposed() {
		t.Fatal("not disposed after Dispose")
	}
	b.Dispose() // must not panic

	if err := Perform(s, testOp{n: 1}); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("disposed binding still received %d deliveries", count)
	}
	if len(s.bindings) != 0 {
		t.Errorf("binding still attached after dispose: %d", len(s.bindings))
	}
}

// TestBinding_DisposedOperationsFail verifies mutating operations on a
// disposed Binding fail with ErrBindingDisposed.
func TestBinding_DisposedOperationsFail(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}
	b.Dispose()

	if err := AddCallback(b, func(int) {}); !errors.Is(err, ErrBindingDisposed) {
		t.Errorf("AddCallback: want ErrBindingDisposed, got %v", err)
	}
	if err := InvokeCallbacks(b, 1); !errors.Is(err, ErrBindingDisposed) {
		t.Errorf("InvokeCallbacks: want ErrBindingDisposed, got %v", err)
	}
}

// TestBinding_DisposeFromCallback verifies a binding disposing itself from
// inside one of its own callbacks does not disturb the in-flight broadcast
// of other bindings.
func TestBinding_DisposeFromCallback(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	if err := HandleOperation(s, func(op testOp) {
		_ = Broadcast(s, testNote{n: op.n})
	}); err != nil {
		t.Fatal(err)
	}

	b1, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}

	var b1Seen, b2Seen []int
	if err := AddCallback(b1, func(n testNote) {
		b1Seen = append(b1Seen, n.n)
		b1.Dispose()
	}); err != nil {
		t.Fatal(err)
	}
	if err := AddCallback(b2, func(n testNote) {
		b2Seen = append(b2Seen, n.n)
	}); err != nil {
		t.Fatal(err)
	}

	if err := Perform(s, testOp{n: 1}); err != nil {
		t.Fatal(err)
	}
	if err := Perform(s, testOp{n: 2}); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{1}, b1Seen); diff != "" {
		t.Errorf("b1 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, b2Seen); diff != "" {
		t.Errorf("b2 mismatch (-want +got):\n%s", diff)
	}
}

// TestBinding_DisposeAfterSubjectDisposed verifies disposing a binding whose
// Subject is already gone is safe.
func TestBinding_DisposeAfterSubjectDisposed(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}
	s.Dispose()
	b.Dispose() // must not panic despite the disposed Subject
	if !b.Disposed() {
		t.Fatal("binding not disposed")
	}
}

// TestBinding_CallbackAddedDuringDelivery verifies callbacks appended while
// a delivery pass is running do not run in that pass.
func TestBinding_CallbackAddedDuringDelivery(t *testing.T) {
	s, err := NewSubject()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBinding(s)
	if err != nil {
		t.Fatal(err)
	}

	var log []string
	if err := AddCallback(b, func(v int) {
		log = append(log, "first")
		if len(log) == 1 {
			if err := AddCallback(b, func(int) {
				log = append(log, "late")
			}); err != nil {
				t.Errorf("AddCallback during delivery: %v", err)
			}
		}
	}); err != nil {
		t.Fatal(err)
	}

	if err := InvokeCallbacks(b, 1); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first"}, log); diff != "" {
		t.Errorf("first pass mismatch (-want +got):\n%s", diff)
	}

	if err := InvokeCallbacks(b, 2); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"first", "first", "late"}, log); diff != "" {
		t.Errorf("second pass mismatch (-want +got):\n%s", diff)
	}
}
