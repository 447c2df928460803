// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"context"

	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/grad"
	"github.com/born-ml/gradtape/internal/tangent"
)

// Tangent vectors.
type (
	Vector = tangent.Vector
	Scalar = tangent.Scalar
	Struct = tangent.Struct
	Tuple  = tangent.Tuple
)

// Pullback maps an output cotangent to the input's gradient.
type Pullback = grad.Pullback

// Option configures an evaluation.
type Option = grad.Option

// Engine holds a fixed evaluation configuration.
type Engine = grad.Engine

// EngineConfig configures an Engine.
type EngineConfig = grad.Config

// Result is one input's value and gradient in a batch.
type Result = grad.Result

// Errors reported for values that cannot be differentiated.
var (
	ErrUngradableOutput       = grad.ErrUngradableOutput
	ErrNotDifferentiable      = differentiable.ErrNotDifferentiable
	ErrFieldNotDifferentiable = differentiable.ErrFieldNotDifferentiable
	ErrShapeMismatch          = tangent.ErrShapeMismatch
)

// Evaluation options.
var (
	WithRegistry   = grad.WithRegistry
	WithLogger     = grad.WithLogger
	WithMaxEntries = grad.WithMaxEntries
	WithRespectTo  = grad.WithRespectTo
)

// NewEngine creates an engine.
func NewEngine(cfg EngineConfig) *Engine { return grad.New(cfg) }

// Evaluate runs f without tracing.
func Evaluate[P, R any](f func(P) R, p P, opts ...Option) (R, error) {
	return grad.Evaluate(f, p, opts...)
}

// ValueAndPullback runs f at p and returns its result with a pullback.
func ValueAndPullback[P, R any](f func(P) R, p P, opts ...Option) (R, Pullback, error) {
	return grad.ValueAndPullback(f, p, opts...)
}

// ValueAndGradient returns f(p) and its gradient for a scalar-valued f.
func ValueAndGradient[P, R any](f func(P) R, p P, opts ...Option) (float64, Vector, error) {
	return grad.ValueAndGradient(f, p, opts...)
}

// Gradient returns the gradient of a scalar-valued f at p.
func Gradient[P, R any](f func(P) R, p P, opts ...Option) (Vector, error) {
	return grad.Gradient(f, p, opts...)
}

// Derivative returns f'(x).
func Derivative(f func(Var) Var, x float64, opts ...Option) (float64, error) {
	return grad.Derivative(f, x, opts...)
}

// GradientN returns f(xs) and its partial derivatives.
func GradientN(f func([]Var) Var, xs []float64, opts ...Option) (float64, []float64, error) {
	return grad.GradientN(f, xs, opts...)
}

// Batch computes ValueAndGradient for every input concurrently.
func Batch[P, R any](ctx context.Context, e *Engine, f func(P) R, inputs []P, opts ...Option) ([]Result, error) {
	return grad.Batch(ctx, e, f, inputs, opts...)
}

// Move perturbs the leaves of *p by t.
func Move[T any](p *T, t Vector) error { return differentiable.Move(p, t) }

// ZeroTangent returns the zero tangent of p.
func ZeroTangent[T any](p T) (Vector, error) { return differentiable.ZeroOf(p) }

// Paths returns the path of every leaf of p in tangent order.
func Paths[T any](p T) ([]string, error) { return differentiable.PathsOf(p) }

// NewStruct builds a struct tangent from field names and values.
func NewStruct(names []string, fields []Vector) Struct { return tangent.NewStruct(names, fields) }

// At returns the component of v at path, e.g. "tube.diameter".
func At(v Vector, path string) (Vector, error) { return tangent.At(v, path) }
