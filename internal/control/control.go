// Package control provides branching and looping helpers for
// differentiable code.
//
// Plain Go control flow already differentiates correctly: the tape records
// only the operations that actually ran, so the pullback of a branch is
// the pullback of the branch that was taken and the pullback of a loop is
// the reversed sequence of its iterations. The helpers here add branch
// tags to the trace, which makes the decision inspectable and lets
// two-way selections share one pullback that dispatches on the tag.
package control

import (
	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/autodiff/ops"
)

// Branch tags recorded by If and Select.
const (
	Then = 0
	Else = 1
)

// If evaluates then when cond holds and els otherwise, never both. A traced
// result is wrapped in an identity entry carrying the branch tag.
func If(cond bool, then, els func() autodiff.Var) autodiff.Var {
	tag, f := Then, then
	if !cond {
		tag, f = Else, els
	}
	v := f()
	return autodiff.Apply(v.Value(), func(inputs []int, output int) ops.Operation {
		return ops.NewBranchOp(inputs[0], tag, output)
	}, v)
}

// Select returns a when cond holds and b otherwise. Both operands are
// already computed; the cotangent flows only to the selected one.
func Select(cond bool, a, b autodiff.Var) autodiff.Var {
	tag, val := Then, a.Value()
	if !cond {
		tag, val = Else, b.Value()
	}
	return autodiff.Apply(val, func(inputs []int, output int) ops.Operation {
		return ops.NewSelectOp(inputs[0], inputs[1], tag, output)
	}, a, b)
}

// Branch is If for arbitrary state. Only the operations of the taken branch
// are recorded; no tag entry is added.
func Branch[S any](cond bool, then, els func() S) S {
	if cond {
		return then()
	}
	return els()
}

// Repeat applies body n times, passing the iteration index.
func Repeat[S any](n int, s S, body func(i int, s S) S) S {
	for i := 0; i < n; i++ {
		s = body(i, s)
	}
	return s
}

// While applies body as long as cond holds. A traced loop that never
// terminates is cut off by the tape's entry limit.
func While[S any](s S, cond func(S) bool, body func(S) S) S {
	for cond(s) {
		s = body(s)
	}
	return s
}
