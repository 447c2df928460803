// Package tangent implements the additive algebra of tangent vectors.
//
// Every differentiable value has exactly one associated tangent type:
//   - Scalar: tangent of a single Var
//   - Struct: named fields, one per differentiable field of a composite
//   - Tuple:  indexed elements, tangent of arrays and slices
//
// The algebra composes recursively, so a Struct may hold Tuples of Structs
// to any depth. Zero is a two-sided identity for Add, and Add is commutative
// and associative up to floating-point rounding.
package tangent

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// ErrShapeMismatch is returned when two tangents of different shapes are combined.
var ErrShapeMismatch = errors.New("tangent shape mismatch")

// Vector is an element of a tangent space.
//
// The set of implementations is closed: Scalar, Struct and Tuple.
type Vector interface {
	// Zero returns the neutral element with the same shape as the receiver.
	Zero() Vector

	// Add returns the sum of the receiver and other.
	// Returns ErrShapeMismatch if the shapes differ.
	Add(other Vector) (Vector, error)

	// Scale multiplies every leaf by s.
	Scale(s float64) Vector

	// Len returns the number of scalar leaves.
	Len() int

	// Leaves returns the scalar leaves in depth-first field order.
	Leaves() []float64

	String() string

	appendLeaves(dst []float64) []float64
}

// Scalar is the tangent of a scalar value.
type Scalar float64

// Zero returns Scalar(0).
func (s Scalar) Zero() Vector { return Scalar(0) }

// Add implements Vector.
func (s Scalar) Add(other Vector) (Vector, error) {
	o, ok := other.(Scalar)
	if !ok {
		return nil, fmt.Errorf("%w: scalar + %T", ErrShapeMismatch, other)
	}
	return s + o, nil
}

// Scale implements Vector.
func (s Scalar) Scale(k float64) Vector { return Scalar(float64(s) * k) }

// Len implements Vector.
func (s Scalar) Len() int { return 1 }

// Leaves implements Vector.
func (s Scalar) Leaves() []float64 { return []float64{float64(s)} }

func (s Scalar) String() string { return fmt.Sprintf("%g", float64(s)) }

func (s Scalar) appendLeaves(dst []float64) []float64 { return append(dst, float64(s)) }

// Struct is the tangent of a composite value: one entry per differentiable field.
type Struct struct {
	names  []string
	fields []Vector
}

// NewStruct creates a Struct tangent. names and fields must have equal length.
func NewStruct(names []string, fields []Vector) Struct {
	if len(names) != len(fields) {
		panic(fmt.Sprintf("tangent: %d names for %d fields", len(names), len(fields)))
	}
	return Struct{names: names, fields: fields}
}

// Names returns the field names in declaration order.
func (s Struct) Names() []string { return s.names }

// Fields returns the field tangents in declaration order.
func (s Struct) Fields() []Vector { return s.fields }

// Field returns the tangent of the named field.
func (s Struct) Field(name string) (Vector, bool) {
	for i, n := range s.names {
		if n == name {
			return s.fields[i], true
		}
	}
	return nil, false
}

// Zero implements Vector.
func (s Struct) Zero() Vector {
	fields := make([]Vector, len(s.fields))
	for i, f := range s.fields {
		fields[i] = f.Zero()
	}
	return Struct{names: s.names, fields: fields}
}

// Add implements Vector.
func (s Struct) Add(other Vector) (Vector, error) {
	o, ok := other.(Struct)
	if !ok || len(o.fields) != len(s.fields) {
		return nil, fmt.Errorf("%w: struct + %T", ErrShapeMismatch, other)
	}
	fields := make([]Vector, len(s.fields))
	for i := range s.fields {
		if s.names[i] != o.names[i] {
			return nil, fmt.Errorf("%w: field %q vs %q", ErrShapeMismatch, s.names[i], o.names[i])
		}
		sum, err := s.fields[i].Add(o.fields[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", s.names[i], err)
		}
		fields[i] = sum
	}
	return Struct{names: s.names, fields: fields}, nil
}

// Scale implements Vector.
func (s Struct) Scale(k float64) Vector {
	fields := make([]Vector, len(s.fields))
	for i, f := range s.fields {
		fields[i] = f.Scale(k)
	}
	return Struct{names: s.names, fields: fields}
}

// Len implements Vector.
func (s Struct) Len() int {
	n := 0
	for _, f := range s.fields {
		n += f.Len()
	}
	return n
}

// Leaves implements Vector.
func (s Struct) Leaves() []float64 { return s.appendLeaves(make([]float64, 0, s.Len())) }

func (s Struct) appendLeaves(dst []float64) []float64 {
	for _, f := range s.fields {
		dst = f.appendLeaves(dst)
	}
	return dst
}

func (s Struct) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.names[i])
		b.WriteString(": ")
		b.WriteString(f.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Tuple is the tangent of an array or slice of differentiable values.
type Tuple []Vector

// Zero implements Vector.
func (t Tuple) Zero() Vector {
	out := make(Tuple, len(t))
	for i, e := range t {
		out[i] = e.Zero()
	}
	return out
}

// Add implements Vector.
func (t Tuple) Add(other Vector) (Vector, error) {
	o, ok := other.(Tuple)
	if !ok || len(o) != len(t) {
		return nil, fmt.Errorf("%w: tuple + %T", ErrShapeMismatch, other)
	}
	out := make(Tuple, len(t))
	for i := range t {
		sum, err := t[i].Add(o[i])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = sum
	}
	return out, nil
}

// Scale implements Vector.
func (t Tuple) Scale(k float64) Vector {
	out := make(Tuple, len(t))
	for i, e := range t {
		out[i] = e.Scale(k)
	}
	return out
}

// Len implements Vector.
func (t Tuple) Len() int {
	n := 0
	for _, e := range t {
		n += e.Len()
	}
	return n
}

// Leaves implements Vector.
func (t Tuple) Leaves() []float64 { return t.appendLeaves(make([]float64, 0, t.Len())) }

func (t Tuple) appendLeaves(dst []float64) []float64 {
	for _, e := range t {
		dst = e.appendLeaves(dst)
	}
	return dst
}

func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, e := range t {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FromLeaves builds a tangent with the shape of like from flattened leaves.
func FromLeaves(like Vector, leaves []float64) (Vector, error) {
	v, rest, err := fill(like, leaves)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d leaves left over", ErrShapeMismatch, len(rest))
	}
	return v, nil
}

func fill(like Vector, leaves []float64) (Vector, []float64, error) {
	switch l := like.(type) {
	case Scalar:
		if len(leaves) == 0 {
			return nil, nil, fmt.Errorf("%w: not enough leaves", ErrShapeMismatch)
		}
		return Scalar(leaves[0]), leaves[1:], nil
	case Struct:
		fields := make([]Vector, len(l.fields))
		for i, f := range l.fields {
			v, rest, err := fill(f, leaves)
			if err != nil {
				return nil, nil, err
			}
			fields[i], leaves = v, rest
		}
		return Struct{names: l.names, fields: fields}, leaves, nil
	case Tuple:
		out := make(Tuple, len(l))
		for i, e := range l {
			v, rest, err := fill(e, leaves)
			if err != nil {
				return nil, nil, err
			}
			out[i], leaves = v, rest
		}
		return out, leaves, nil
	default:
		return nil, nil, fmt.Errorf("%w: unsupported tangent %T", ErrShapeMismatch, like)
	}
}

// Map applies fn to every leaf of v.
func Map(v Vector, fn func(float64) float64) Vector {
	leaves := v.Leaves()
	for i, x := range leaves {
		leaves[i] = fn(x)
	}
	out, _ := FromLeaves(v, leaves)
	return out
}

// Map2 combines the leaves of a and b pairwise.
func Map2(a, b Vector, fn func(x, y float64) float64) (Vector, error) {
	if !SameShape(a, b) {
		return nil, ErrShapeMismatch
	}
	la, lb := a.Leaves(), b.Leaves()
	for i := range la {
		la[i] = fn(la[i], lb[i])
	}
	return FromLeaves(a, la)
}

// SameShape reports whether a and b have identical structure.
func SameShape(a, b Vector) bool {
	switch x := a.(type) {
	case Scalar:
		_, ok := b.(Scalar)
		return ok
	case Struct:
		y, ok := b.(Struct)
		if !ok || len(x.fields) != len(y.fields) {
			return false
		}
		for i := range x.fields {
			if x.names[i] != y.names[i] || !SameShape(x.fields[i], y.fields[i]) {
				return false
			}
		}
		return true
	case Tuple:
		y, ok := b.(Tuple)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !SameShape(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ApproxEqual reports whether a and b have the same shape and every pair of
// leaves agrees within tol, absolute or relative.
func ApproxEqual(a, b Vector, tol float64) bool {
	if !SameShape(a, b) {
		return false
	}
	la, lb := a.Leaves(), b.Leaves()
	for i := range la {
		if !scalar.EqualWithinAbsOrRel(la[i], lb[i], tol, tol) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm of the leaves.
func Norm(v Vector) float64 {
	leaves := v.Leaves()
	if len(leaves) == 0 {
		return 0
	}
	return floats.Norm(leaves, 2)
}

// Sum adds vs left to right. Sum of nothing is nil.
func Sum(vs ...Vector) (Vector, error) {
	if len(vs) == 0 {
		return nil, nil
	}
	acc := vs[0]
	for _, v := range vs[1:] {
		var err error
		if acc, err = acc.Add(v); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
