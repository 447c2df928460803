package dmath

import (
	"math"

	"github.com/born-ml/gradtape/internal/registry"
)

// Registry keys of the elementary functions.
var (
	KeySin     = registry.Key{Name: "sin", Arity: 1}
	KeyCos     = registry.Key{Name: "cos", Arity: 1}
	KeyTan     = registry.Key{Name: "tan", Arity: 1}
	KeyExp     = registry.Key{Name: "exp", Arity: 1}
	KeyLog     = registry.Key{Name: "log", Arity: 1}
	KeySqrt    = registry.Key{Name: "sqrt", Arity: 1}
	KeyTanh    = registry.Key{Name: "tanh", Arity: 1}
	KeySigmoid = registry.Key{Name: "sigmoid", Arity: 1}
	KeyPow     = registry.Key{Name: "pow", Arity: 2}
	KeyMin     = registry.Key{Name: "min", Arity: 2}
	KeyMax     = registry.Key{Name: "max", Arity: 2}
	KeyHypot   = registry.Key{Name: "hypot", Arity: 2}
)

func init() {
	if err := Register(registry.Default); err != nil {
		panic(err)
	}
}

// Register adds every elementary function to r.
func Register(r *registry.Registry) error {
	for _, e := range []struct {
		key registry.Key
		vjp registry.VJP
	}{
		{KeySin, sinVJP},
		{KeyCos, cosVJP},
		{KeyTan, tanVJP},
		{KeyExp, expVJP},
		{KeyLog, logVJP},
		{KeySqrt, sqrtVJP},
		{KeyTanh, tanhVJP},
		{KeySigmoid, sigmoidVJP},
		{KeyPow, powVJP},
		{KeyMin, minVJP},
		{KeyMax, maxVJP},
		{KeyHypot, hypotVJP},
	} {
		if err := r.Register(e.key, e.vjp); err != nil {
			return err
		}
	}
	return nil
}

// unary wraps a function and its derivative at x into a VJP.
func unary(f func(float64) float64, df func(x, fx float64) float64) registry.VJP {
	return func(args []float64) (float64, registry.Pullback) {
		x := args[0]
		fx := f(x)
		d := df(x, fx)
		return fx, func(ct float64) []float64 {
			return []float64{ct * d}
		}
	}
}

var (
	sinVJP = unary(math.Sin, func(x, _ float64) float64 { return math.Cos(x) })
	cosVJP = unary(math.Cos, func(x, _ float64) float64 { return -math.Sin(x) })
	tanVJP = unary(math.Tan, func(_, fx float64) float64 { return 1 + fx*fx })
	expVJP = unary(math.Exp, func(_, fx float64) float64 { return fx })
	logVJP = unary(math.Log, func(x, _ float64) float64 { return 1 / x })

	tanhVJP    = unary(math.Tanh, func(_, fx float64) float64 { return 1 - fx*fx })
	sigmoidVJP = unary(sigmoid, func(_, fx float64) float64 { return fx * (1 - fx) })
)

// sqrtVJP keeps the cotangent on the numerator: ct / (2*sqrt(x)).
func sqrtVJP(args []float64) (float64, registry.Pullback) {
	s := math.Sqrt(args[0])
	return s, func(ct float64) []float64 {
		return []float64{ct / (2 * s)}
	}
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// powVJP differentiates x^y. The exponent gradient uses log(x) and is
// reported as 0 where x <= 0 and the term is undefined.
func powVJP(args []float64) (float64, registry.Pullback) {
	x, y := args[0], args[1]
	v := math.Pow(x, y)
	return v, func(ct float64) []float64 {
		dx := ct * y * math.Pow(x, y-1)
		dy := 0.0
		if x > 0 {
			dy = ct * v * math.Log(x)
		}
		return []float64{dx, dy}
	}
}

// minVJP routes the cotangent to the selected operand; a tie selects the
// left one.
func minVJP(args []float64) (float64, registry.Pullback) {
	a, b := args[0], args[1]
	if a <= b {
		return a, left
	}
	return b, right
}

// maxVJP mirrors minVJP; a tie selects the left operand.
func maxVJP(args []float64) (float64, registry.Pullback) {
	a, b := args[0], args[1]
	if a >= b {
		return a, left
	}
	return b, right
}

func left(ct float64) []float64  { return []float64{ct, 0} }
func right(ct float64) []float64 { return []float64{0, ct} }

func hypotVJP(args []float64) (float64, registry.Pullback) {
	x, y := args[0], args[1]
	h := math.Hypot(x, y)
	return h, func(ct float64) []float64 {
		if h == 0 {
			return []float64{0, 0}
		}
		return []float64{ct * x / h, ct * y / h}
	}
}
