package differentiable

import (
	"errors"
	"fmt"
	"reflect"
)

// Schema errors.
var (
	// ErrFieldNotDifferentiable reports a field that cannot take part in
	// differentiation: either an untagged field of a non-differentiable kind,
	// or a request to differentiate a field tagged ad:"-".
	ErrFieldNotDifferentiable = errors.New("field is not differentiable")

	// ErrUnknownField reports a path that names no field.
	ErrUnknownField = errors.New("unknown field")

	// ErrNotDifferentiable reports a type that is neither a Var nor a
	// composite of Vars.
	ErrNotDifferentiable = errors.New("type is not differentiable")
)

// FieldError describes an untagged struct field whose type is not
// differentiable.
type FieldError struct {
	Struct reflect.Type
	Field  string
	Type   reflect.Type
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s.%s has type %s; tag it `ad:\"-\"` to exclude it",
		ErrFieldNotDifferentiable, e.Struct, e.Field, e.Type)
}

// Unwrap allows errors.Is(err, ErrFieldNotDifferentiable).
func (e *FieldError) Unwrap() error {
	return ErrFieldNotDifferentiable
}
