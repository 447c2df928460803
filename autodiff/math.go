// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"github.com/born-ml/gradtape/internal/control"
	"github.com/born-ml/gradtape/internal/dmath"
)

// Elementary functions.
var (
	Sin       = dmath.Sin
	Cos       = dmath.Cos
	Tan       = dmath.Tan
	Exp       = dmath.Exp
	Log       = dmath.Log
	Sqrt      = dmath.Sqrt
	Tanh      = dmath.Tanh
	Sigmoid   = dmath.Sigmoid
	Pow       = dmath.Pow
	Min       = dmath.Min
	Max       = dmath.Max
	Hypot     = dmath.Hypot
	Abs       = dmath.Abs
	ReLU      = dmath.ReLU
	LeakyReLU = dmath.LeakyReLU
)

// If evaluates then or els depending on cond and records the branch taken.
func If(cond bool, then, els func() Var) Var { return control.If(cond, then, els) }

// Select returns a when cond holds and b otherwise.
func Select(cond bool, a, b Var) Var { return control.Select(cond, a, b) }

// Branch is If for arbitrary differentiable state.
func Branch[S any](cond bool, then, els func() S) S { return control.Branch(cond, then, els) }

// Repeat applies body n times to s.
func Repeat[S any](n int, s S, body func(i int, s S) S) S { return control.Repeat(n, s, body) }

// While applies body while cond holds.
func While[S any](s S, cond func(S) bool, body func(S) S) S { return control.While(s, cond, body) }
