// Package bench measures forward and gradient evaluation time over a
// coverage suite of differentiable functions: straight-line arithmetic,
// composed helpers, loops of several sizes, fuzzer-generated expressions
// with branches, and the building simulation.
package bench

import (
	"errors"
	"fmt"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/models/building"
	"github.com/born-ml/gradtape/internal/tangent"
)

// ErrUnknownSuite is returned by Lookup for names with no suite.
var ErrUnknownSuite = errors.New("unknown benchmark suite")

// Case is one benchmarked function at a fixed input.
type Case struct {
	Name     string
	Forward  func() float64
	Gradient func(opts ...grad.Option) (float64, tangent.Vector, error)
}

// Suite groups related cases.
type Suite struct {
	Name  string
	Cases []Case
}

// Unary builds a case for f at x.
func Unary(name string, f func(autodiff.Var) autodiff.Var, x float64) Case {
	return Case{
		Name:    name,
		Forward: func() float64 { return f(autodiff.Const(x)).Value() },
		Gradient: func(opts ...grad.Option) (float64, tangent.Vector, error) {
			return grad.ValueAndGradient(f, autodiff.Const(x), opts...)
		},
	}
}

// Ternary builds a case for a three-argument function at (x0, x1, x2).
func Ternary(name string, f func(x0, x1, x2 autodiff.Var) autodiff.Var, x0, x1, x2 float64) Case {
	g := func(x []autodiff.Var) autodiff.Var { return f(x[0], x[1], x[2]) }
	at := []float64{x0, x1, x2}
	return Case{
		Name: name,
		Forward: func() float64 {
			return f(autodiff.Const(x0), autodiff.Const(x1), autodiff.Const(x2)).Value()
		},
		Gradient: func(opts ...grad.Option) (float64, tangent.Vector, error) {
			p := []autodiff.Var{autodiff.Const(at[0]), autodiff.Const(at[1]), autodiff.Const(at[2])}
			return grad.ValueAndGradient(g, p, opts...)
		},
	}
}

// Suites returns every suite in reporting order.
func Suites() []Suite {
	return []Suite{
		{Name: "simple", Cases: []Case{
			Unary("one operation", OneOperation, 2),
			Unary("sixteen operations", SixteenOperations, 2),
		}},
		{Name: "composed", Cases: []Case{
			Unary("two composed operations", TwoComposedOperations, 2),
			Unary("sixteen composed operations", SixteenComposedOperations, 2),
		}},
		{Name: "looped-small", Cases: []Case{
			Unary("one operation looped (small)", Looped(SmallLoopIterations, 1, OneOperation), 2),
			Unary("four operations looped (small)", Looped(SmallLoopIterations, 2, ThreeOverTimesTwo), 2),
			Unary("sixteen operations looped (small)", Looped(SmallLoopIterations, 8, ThreeOverTimesTwo), 2),
		}},
		{Name: "looped", Cases: []Case{
			Unary("one operation looped", Looped(LoopIterations, 1, OneOperation), 2),
			Unary("two operations looped", Looped(LoopIterations, 1, ThreeOverTimesTwo), 2),
			Unary("four operations looped", Looped(LoopIterations, 2, ThreeOverTimesTwo), 2),
			Unary("eight operations looped", Looped(LoopIterations, 4, ThreeOverTimesTwo), 2),
			Unary("sixteen operations looped", Looped(LoopIterations, 8, ThreeOverTimesTwo), 2),
			Unary("two composed operations looped", Looped(LoopIterations, 1, TwoComposedOperations), 2),
			Unary("sixteen composed operations looped", Looped(LoopIterations, 1, SixteenComposedOperations), 2),
		}},
		{Name: "fuzzed", Cases: []Case{
			Ternary("fuzzed math 1", FuzzedMath1, 0.1, 0.2, 0.3),
			Ternary("fuzzed math 2", FuzzedMath2, 0.1, 0.2, 0.3),
			Ternary("fuzzed ternary 1", FuzzedTernary1, 0.1, 0.2, 0.3),
			Ternary("fuzzed ternary 2", FuzzedTernary2, 0.1, 0.2, 0.3),
		}},
		{Name: "building", Cases: []Case{buildingCase(33.3)}},
	}
}

// Lookup returns the named suites in the given order, or every suite when
// names is empty.
func Lookup(names []string) ([]Suite, error) {
	all := Suites()
	if len(names) == 0 {
		return all, nil
	}
	out := make([]Suite, 0, len(names))
	for _, name := range names {
		found := false
		for _, s := range all {
			if s.Name == name {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
		}
	}
	return out, nil
}

func buildingCase(startingTemp float64) Case {
	return Case{
		Name:    "building simulation",
		Forward: func() float64 { return building.FullPipe(building.DefaultParams(startingTemp)).Value() },
		Gradient: func(opts ...grad.Option) (float64, tangent.Vector, error) {
			return grad.ValueAndGradient(building.FullPipe, building.DefaultParams(startingTemp), opts...)
		},
	}
}
