package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/gradtape/internal/autodiff"
)

// chain composes sixteen operations over two inputs, reusing intermediate
// values so that several nodes fan out.
func chain(x, y autodiff.Var) autodiff.Var {
	a := x.Mul(y)                             // 1
	b := a.Add(x)                             // 2
	c := b.Div(y.AddConst(3))                 // 3, 4
	d := c.Square()                           // 5
	e := d.Sub(a.MulConst(0.25))              // 6, 7
	f := autodiff.ConstDiv(1, e.AddConst(10)) // 8, 9
	g := f.Mul(x).Neg()                       // 10, 11
	h := g.Add(autodiff.ConstSub(2, y))       // 12, 13
	i := h.Mul(c)                             // 14
	j := i.DivConst(4).Add(b)                 // 15, 16
	return j
}

func chainFloat(x, y float64) float64 {
	return chain(autodiff.Const(x), autodiff.Const(y)).Value()
}

// TestGradientCheck_Chain compares reverse-mode gradients against central
// finite differences at several points.
func TestGradientCheck_Chain(t *testing.T) {
	points := [][2]float64{{0.5, 1.5}, {-1.2, 0.7}, {2, -0.4}, {3.3, 2.1}}
	settings := &fd.Settings{Formula: fd.Central, Step: 1e-6}

	for _, p := range points {
		tape := newTape(t)
		x, y := tape.Leaf(p[0]), tape.Leaf(p[1])
		out := chain(x, y)
		assert.Equal(t, 16, tape.NumOps())
		assert.InDelta(t, chainFloat(p[0], p[1]), out.Value(), 1e-12)

		adj := backward(t, tape, out)

		wantX := fd.Derivative(func(v float64) float64 { return chainFloat(v, p[1]) }, p[0], settings)
		wantY := fd.Derivative(func(v float64) float64 { return chainFloat(p[0], v) }, p[1], settings)

		assert.InDelta(t, wantX, adj.Of(x), 1e-5*math.Max(1, math.Abs(wantX)), "d/dx at %v", p)
		assert.InDelta(t, wantY, adj.Of(y), 1e-5*math.Max(1, math.Abs(wantY)), "d/dy at %v", p)
	}
}

func TestGradientCheck_Gradient(t *testing.T) {
	tape := newTape(t)
	x, y := tape.Leaf(0.8), tape.Leaf(-1.1)
	adj := backward(t, tape, chain(x, y))

	grad := make([]float64, 2)
	fd.Gradient(grad, func(v []float64) float64 { return chainFloat(v[0], v[1]) }, []float64{0.8, -1.1}, &fd.Settings{Formula: fd.Central})

	assert.InDeltaSlice(t, grad, []float64{adj.Of(x), adj.Of(y)}, 1e-5)
}
