package observable

import "errors"

// Standard errors.
var (
	// ErrSubjectDisposed is returned by mutating Subject operations once the
	// Subject has been disposed.
	ErrSubjectDisposed = errors.New("observable: subject is disposed")

	// ErrBindingDisposed is returned by mutating Binding operations once the
	// Binding has been disposed.
	ErrBindingDisposed = errors.New("observable: binding is disposed")

	// ErrUnsupportedOperation is returned by consumer APIs that would need
	// to report an outcome which cannot be known at the call site, because
	// the underlying state change may be deferred behind an in-flight
	// dispatch.
	ErrUnsupportedOperation = errors.New("observable: operation cannot report a result under deferred execution")
)

// RangeError represents an out-of-range argument, such as an invalid index
// passed to a list primitive. It is raised by panicking from inside the
// owner's operation handler, and propagates out of the call that triggered
// the processing loop iteration (the dispatcher never recovers it).
type RangeError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	if e.Message == "" {
		return "range error"
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *RangeError) Unwrap() error {
	return e.Cause
}
