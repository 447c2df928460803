// Package dmath provides differentiable elementary functions.
//
// Each function is an opaque operation whose VJP is registered on
// registry.Default when the package is imported; Register installs the same
// set into a private registry. The piecewise functions (Abs, ReLU,
// LeakyReLU) are written with package control so their traces carry the
// branch that was taken.
package dmath

import (
	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/control"
	"github.com/born-ml/gradtape/internal/registry"
)

// Sin returns sin(x).
func Sin(x autodiff.Var) autodiff.Var { return call(KeySin, x) }

// Cos returns cos(x).
func Cos(x autodiff.Var) autodiff.Var { return call(KeyCos, x) }

// Tan returns tan(x).
func Tan(x autodiff.Var) autodiff.Var { return call(KeyTan, x) }

// Exp returns e**x.
func Exp(x autodiff.Var) autodiff.Var { return call(KeyExp, x) }

// Log returns the natural logarithm of x.
func Log(x autodiff.Var) autodiff.Var { return call(KeyLog, x) }

// Sqrt returns the square root of x.
func Sqrt(x autodiff.Var) autodiff.Var { return call(KeySqrt, x) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x autodiff.Var) autodiff.Var { return call(KeyTanh, x) }

// Sigmoid returns 1 / (1 + e**-x).
func Sigmoid(x autodiff.Var) autodiff.Var { return call(KeySigmoid, x) }

// Pow returns x**y.
func Pow(x, y autodiff.Var) autodiff.Var { return call(KeyPow, x, y) }

// Min returns the smaller of a and b, preferring a on ties.
func Min(a, b autodiff.Var) autodiff.Var { return call(KeyMin, a, b) }

// Max returns the larger of a and b, preferring a on ties.
func Max(a, b autodiff.Var) autodiff.Var { return call(KeyMax, a, b) }

// Hypot returns sqrt(x*x + y*y).
func Hypot(x, y autodiff.Var) autodiff.Var { return call(KeyHypot, x, y) }

func call(key registry.Key, args ...autodiff.Var) autodiff.Var {
	return autodiff.Call(key.Name, args...)
}

// Abs returns |x|. Zero takes the non-negative branch, so its gradient is +1.
func Abs(x autodiff.Var) autodiff.Var {
	return control.If(x.Value() < 0,
		func() autodiff.Var { return x.Neg() },
		func() autodiff.Var { return x },
	)
}

// ReLU returns max(x, 0). The boundary takes the zero branch.
func ReLU(x autodiff.Var) autodiff.Var {
	return control.If(x.Value() > 0,
		func() autodiff.Var { return x },
		func() autodiff.Var { return autodiff.Const(0) },
	)
}

// LeakyReLU returns x for x >= 0 and slope*x otherwise.
func LeakyReLU(x autodiff.Var, slope float64) autodiff.Var {
	return control.If(x.Value() >= 0,
		func() autodiff.Var { return x },
		func() autodiff.Var { return x.MulConst(slope) },
	)
}
