package grad

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUngradableOutput is returned when a gradient is requested for a
// function whose output is not a single differentiable scalar.
var ErrUngradableOutput = errors.New("gradient requires a scalar output")

// UngradableOutputError describes the offending output.
type UngradableOutputError struct {
	Type   reflect.Type // Output type
	Leaves int          // Number of differentiable leaves in the output
}

// Error implements the error interface.
func (e *UngradableOutputError) Error() string {
	return fmt.Sprintf("%s: %s has %d differentiable leaves; use ValueAndPullback",
		ErrUngradableOutput, e.Type, e.Leaves)
}

// Unwrap allows errors.Is(err, ErrUngradableOutput).
func (e *UngradableOutputError) Unwrap() error {
	return ErrUngradableOutput
}
