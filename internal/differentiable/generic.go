package differentiable

import (
	"fmt"
	"reflect"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/tangent"
)

// TangentOf returns the primal values of p's leaves shaped as p's tangent.
func TangentOf[T any](p T) (tangent.Vector, error) {
	s, err := For[T]()
	if err != nil {
		return nil, err
	}
	return s.Primal(reflect.ValueOf(&p).Elem()), nil
}

// ZeroOf returns the zero of p's tangent type.
func ZeroOf[T any](p T) (tangent.Vector, error) {
	s, err := For[T]()
	if err != nil {
		return nil, err
	}
	return s.Zero(reflect.ValueOf(&p).Elem()), nil
}

// Move perturbs every differentiable leaf of *p by the matching component
// of t. Non-differentiable fields are left untouched. Moved leaves are
// constants: any trace they were bound to is dropped.
func Move[T any](p *T, t tangent.Vector) error {
	s, err := For[T]()
	if err != nil {
		return err
	}
	v := reflect.ValueOf(p).Elem()
	if zero := s.Zero(v); !tangent.SameShape(zero, t) {
		return fmt.Errorf("%w: moving %s by %s", tangent.ErrShapeMismatch, s.typ, t)
	}
	leaves := t.Leaves()
	v.Set(s.Bind(v, func(i int, x autodiff.Var) autodiff.Var {
		return autodiff.Const(x.Value() + leaves[i])
	}))
	return nil
}

// Detach returns a copy of p whose leaves are constants with no tape.
func Detach[T any](p T) (T, error) {
	s, err := For[T]()
	if err != nil {
		return p, err
	}
	out := s.Bind(reflect.ValueOf(&p).Elem(), func(_ int, x autodiff.Var) autodiff.Var {
		return x.Detach()
	})
	return out.Interface().(T), nil
}

// PathsOf returns the path of every leaf of p in tangent order.
func PathsOf[T any](p T) ([]string, error) {
	s, err := For[T]()
	if err != nil {
		return nil, err
	}
	return s.Paths(reflect.ValueOf(&p).Elem()), nil
}
