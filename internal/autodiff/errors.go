package autodiff

import (
	"errors"
	"fmt"
)

// Engine errors. Every one of them aborts the evaluation that raised it.
var (
	ErrMissingDerivative = errors.New("no derivative registered")
	ErrCycle             = errors.New("trace entry depends on a value it produces")
	ErrForeignVar        = errors.New("value belongs to a different trace")
	ErrTraceLimit        = errors.New("trace entry limit exceeded")
	ErrAmbiguousRegistry = errors.New("constant operands resolve against more than one active registry")
	ErrCotangentCount    = errors.New("pullback returned wrong number of cotangents")
)

// MissingDerivativeError names an opaque operation that was called during
// evaluation without a registered VJP.
type MissingDerivativeError struct {
	Op string // Registry key, e.g. "erf(float64)"
}

// Error implements the error interface.
func (e *MissingDerivativeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingDerivative, e.Op)
}

// Unwrap allows errors.Is(err, ErrMissingDerivative).
func (e *MissingDerivativeError) Unwrap() error {
	return ErrMissingDerivative
}

// abortError carries an engine error out of user code. Operations on Var
// never return errors, so a failure deep inside a differentiable function
// unwinds the stack to the nearest Recover.
type abortError struct {
	err error
}

func abort(err error) {
	panic(abortError{err: err})
}

// Recover converts an engine abort into an error. It must be deferred
// directly:
//
//	func run() (err error) {
//	    defer autodiff.Recover(&err)
//	    ...
//	}
//
// Panics that did not originate in the engine are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if a, ok := r.(abortError); ok {
		*errp = a.err
		return
	}
	panic(r)
}
