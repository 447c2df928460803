// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/born-ml/gradtape/autodiff"
)

type params struct {
	W, B  autodiff.Var
	Label string `ad:"-"`
}

func loss(p params) autodiff.Var {
	pred := p.W.MulConst(3).Add(p.B)
	return autodiff.Square(pred.SubConst(7))
}

func Example() {
	p := params{W: autodiff.Const(1), B: autodiff.Const(0)}
	value, g, err := autodiff.ValueAndGradient(loss, p)
	if err != nil {
		panic(err)
	}
	fmt.Println(value, g)
	// Output: 16 {w: -24, b: -8}
}

// TestDescent verifies that repeated moves against the gradient fit the line.
func TestDescent(t *testing.T) {
	p := params{Label: "fit"}
	for range 200 {
		g, err := autodiff.Gradient(loss, p)
		if err != nil {
			t.Fatalf("Gradient failed: %v", err)
		}
		if err := autodiff.Move(&p, g.Scale(-0.05)); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
	}
	if got := loss(p).Value(); got > 1e-6 {
		t.Errorf("loss = %v after descent, want ~0", got)
	}
	if p.Label != "fit" {
		t.Errorf("Label = %q, want unchanged", p.Label)
	}
}

// TestCustomRegistry verifies that operations resolve through a private registry.
func TestCustomRegistry(t *testing.T) {
	reg := autodiff.NewRegistry()
	err := reg.Register(autodiff.Key{Name: "cube", Arity: 1}, func(x []float64) (float64, autodiff.ScalarPullback) {
		return x[0] * x[0] * x[0], func(ct float64) []float64 { return []float64{3 * x[0] * x[0] * ct} }
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	cube := func(x autodiff.Var) autodiff.Var { return autodiff.Call("cube", x) }
	d, err := autodiff.Derivative(cube, 2, autodiff.WithRegistry(reg))
	if err != nil {
		t.Fatalf("Derivative failed: %v", err)
	}
	if d != 12 {
		t.Errorf("d/dx x^3 at 2 = %v, want 12", d)
	}

	_, err = autodiff.Derivative(cube, 2)
	if !errors.Is(err, autodiff.ErrMissingDerivative) {
		t.Errorf("default registry: err = %v, want ErrMissingDerivative", err)
	}
}

// TestControlFlow verifies branches and loops through the public API.
func TestControlFlow(t *testing.T) {
	f := func(x autodiff.Var) autodiff.Var {
		y := autodiff.Repeat(3, x, func(_ int, s autodiff.Var) autodiff.Var { return s.Mul(x) })
		return autodiff.If(y.Value() > 10,
			func() autodiff.Var { return y },
			func() autodiff.Var { return y.Neg() },
		)
	}
	for _, tt := range []struct{ x, want float64 }{{2, 32}, {1, -4}} {
		d, err := autodiff.Derivative(f, tt.x)
		if err != nil {
			t.Fatalf("Derivative failed: %v", err)
		}
		if math.Abs(d-tt.want) > 1e-12 {
			t.Errorf("f'(%v) = %v, want %v", tt.x, d, tt.want)
		}
	}
}

// TestBatch verifies concurrent gradients through an engine.
func TestBatch(t *testing.T) {
	e := autodiff.NewEngine(autodiff.EngineConfig{Parallelism: 4})
	inputs := make([]autodiff.Var, 16)
	for i := range inputs {
		inputs[i] = autodiff.Const(float64(i))
	}
	results, err := autodiff.Batch(context.Background(), e, func(x autodiff.Var) autodiff.Var {
		return autodiff.Sin(x).Mul(x)
	}, inputs)
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	for i, r := range results {
		x := float64(i)
		want := math.Cos(x)*x + math.Sin(x)
		if got := r.Gradient.Leaves()[0]; math.Abs(got-want) > 1e-12 {
			t.Errorf("input %d: gradient = %v, want %v", i, got, want)
		}
	}
}

// TestNonDifferentiableField verifies untagged plain fields are rejected.
func TestNonDifferentiableField(t *testing.T) {
	type bad struct {
		W     autodiff.Var
		Scale float64
	}
	_, err := autodiff.Gradient(func(b bad) autodiff.Var { return b.W }, bad{})
	if !errors.Is(err, autodiff.ErrFieldNotDifferentiable) {
		t.Errorf("err = %v, want ErrFieldNotDifferentiable", err)
	}
}
