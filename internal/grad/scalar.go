package grad

import (
	"github.com/born-ml/gradtape/internal/autodiff"
)

// Derivative returns f'(x).
func Derivative(f func(autodiff.Var) autodiff.Var, x float64, opts ...Option) (float64, error) {
	_, g, err := ValueAndGradient(f, autodiff.Const(x), opts...)
	if err != nil {
		return 0, err
	}
	return g.Leaves()[0], nil
}

// GradientN returns the partial derivatives of f at xs.
func GradientN(f func([]autodiff.Var) autodiff.Var, xs []float64, opts ...Option) (float64, []float64, error) {
	p := make([]autodiff.Var, len(xs))
	for i, x := range xs {
		p[i] = autodiff.Const(x)
	}
	value, g, err := ValueAndGradient(f, p, opts...)
	if err != nil {
		return 0, nil, err
	}
	return value, g.Leaves(), nil
}
