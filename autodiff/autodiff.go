// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation for
// ordinary Go numeric code.
//
// Differentiable functions are written against Var, a float64 that may be
// traced. Inputs and outputs can be a Var, a slice or array of them, or any
// struct whose exported fields are (or contain) Vars; other fields must be
// tagged `ad:"-"`. The gradient of such a value is a tangent Vector of the
// same shape.
//
// Example:
//
//	import "github.com/born-ml/gradtape/autodiff"
//
//	type Params struct {
//	    W, B autodiff.Var
//	}
//
//	func loss(p Params) autodiff.Var {
//	    pred := p.W.MulConst(3).Add(p.B)
//	    return autodiff.Square(pred.SubConst(7))
//	}
//
//	func main() {
//	    p := Params{W: autodiff.Const(1), B: autodiff.Const(0)}
//	    value, g, err := autodiff.ValueAndGradient(loss, p)
//	    // value = 16, g = {w: -24, b: -8}
//	}
//
// Elementary functions (Sin, Exp, Pow, ...) are resolved through a
// derivative registry. Custom operations are added with Register before the
// first evaluation; evaluating a function that calls an operation with no
// registered derivative fails with ErrMissingDerivative.
package autodiff

import (
	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/autodiff/ops"
)

// Var is a scalar differentiable value. The zero Var is the constant 0.
type Var = autodiff.Var

// Tape records operations for one evaluation.
type Tape = autodiff.Tape

// TapeConfig controls a Tape.
type TapeConfig = autodiff.Config

// Seed assigns an output cotangent for Tape.Backward.
type Seed = autodiff.Seed

// Adjoints holds the cotangents computed by Tape.Backward.
type Adjoints = autodiff.Adjoints

// Operation is a recorded trace entry.
type Operation = ops.Operation

// Constant is the node id of an untraced operand.
const Constant = ops.Constant

// Errors reported by evaluations.
var (
	ErrMissingDerivative = autodiff.ErrMissingDerivative
	ErrCycle             = autodiff.ErrCycle
	ErrForeignVar        = autodiff.ErrForeignVar
	ErrTraceLimit        = autodiff.ErrTraceLimit
	ErrAmbiguousRegistry = autodiff.ErrAmbiguousRegistry
	ErrCotangentCount    = autodiff.ErrCotangentCount
)

// MissingDerivativeError names an operation with no registered derivative.
type MissingDerivativeError = autodiff.MissingDerivativeError

// Const returns an untraced value.
func Const(x float64) Var { return autodiff.Const(x) }

// NewTape creates a tape for manual tracing.
func NewTape(cfg TapeConfig) *Tape { return autodiff.NewTape(cfg) }

// Square returns x * x.
func Square(x Var) Var { return x.Square() }

// Sum returns the sum of vs.
func Sum(vs ...Var) Var { return autodiff.Sum(vs...) }

// ConstSub returns c - x.
func ConstSub(c float64, x Var) Var { return autodiff.ConstSub(c, x) }

// ConstDiv returns c / x.
func ConstDiv(c float64, x Var) Var { return autodiff.ConstDiv(c, x) }

// Call applies the registered operation name to args.
func Call(name string, args ...Var) Var { return autodiff.Call(name, args...) }

// Apply records a custom operation built by build over args.
func Apply(val float64, build func(inputs []int, output int) Operation, args ...Var) Var {
	return autodiff.Apply(val, build, args...)
}

// Recover converts an evaluation abort into an error; defer it directly.
func Recover(errp *error) { autodiff.Recover(errp) }
