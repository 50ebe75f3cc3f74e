// Package observable provides a single-goroutine, synchronous event-dispatch
// core, plus a set of observable primitives built on it ([Value], [List],
// [Set], [Dict], [Cache], [Channel]). The core is a serialized [Subject]
// that routes typed atomic operations to an owner's handlers and broadcasts
// the resulting changes to ordered, predicate-gated [Binding] callbacks.
//
// # Execution Model
//
// All dispatch is strictly single-goroutine and cooperative: every operation
// either completes synchronously on the caller's stack or is deferred to a
// queue drained later by the chain already running. Nothing ever blocks, and
// nothing ever runs concurrently.
//
// The Subject guarantees, for any interleaving of [Perform], [Broadcast],
// and binding management:
//
//  1. The owner's reaction to an atomic operation always runs before the
//     corresponding broadcast reaches any binding.
//  2. Binding-set membership observed during a broadcast is frozen at
//     broadcast start; attach/detach requests raised mid-broadcast apply
//     only to subsequent broadcasts.
//  3. Operations requested while a chain is executing run in request order,
//     after that chain finishes and before anything requested later.
//  4. Callbacks on one binding for one payload type run to completion before
//     the next binding is visited.
//
// Reentrancy is handled by deferral, not recursion: a Perform issued from
// inside a callback is queued on a boxless per-type lane
// ([github.com/joeycumines/go-observable/valqueue.Queue]) and executed once
// the outer chain unwinds.
//
// # Error Model
//
// Mutating operations on a disposed Subject or Binding fail with
// [ErrSubjectDisposed] or [ErrBindingDisposed]. Panics raised by owner
// handlers or binding callbacks are never recovered by the core: they
// propagate out of the call that triggered the loop iteration, leaving
// later-queued operations undrained. The busy latch is restored by deferred
// cleanup, so a recovered panic upstream does not wedge the Subject.
//
// # Thread Safety
//
// None. Every type in this package must be confined to a single goroutine.
// The busy flag is a reentrancy latch for nested calls on one stack, not a
// mutex.
//
// # Usage
//
//	v, err := observable.NewValue(0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Dispose()
//
//	b, err := v.Bind()
//	if err != nil {
//		log.Fatal(err)
//	}
//	b.OnChanged(func(c observable.ValueChanged[int]) {
//		fmt.Println(c.Old, "->", c.New)
//	})
//
//	v.Set(42) // prints "0 -> 42"
package observable
