// Package grad computes values, gradients and pullbacks of differentiable
// functions.
//
// A differentiable function takes and returns differentiable values (see
// package differentiable): an autodiff.Var, or structs, arrays and slices
// of them. Each call records a fresh trace, so calls never share state and
// may run concurrently as long as the function itself does not mutate
// shared data.
//
//	loss := func(p Params) autodiff.Var { ... }
//	value, g, err := grad.ValueAndGradient(loss, params)
//
// Engine errors raised inside the function (a missing derivative, a trace
// limit) abort that evaluation and are returned as errors.
package grad

import (
	"fmt"
	"reflect"
	"time"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/differentiable"
	"github.com/born-ml/gradtape/internal/registry"
	"github.com/born-ml/gradtape/internal/tangent"
)

// Pullback maps a cotangent of a function's output to the cotangent of its
// input. It may be called any number of times, but not concurrently.
type Pullback func(cotangent tangent.Vector) (tangent.Vector, error)

// trace is one recorded evaluation.
type trace struct {
	tape   *autodiff.Tape
	in     *differentiable.Schema
	input  reflect.Value
	out    *differentiable.Schema
	output reflect.Value
}

// Evaluate runs f on p without recording a trace. Differentiable results
// are returned detached; other result types are returned as is.
func Evaluate[P, R any](f func(P) R, p P, opts ...Option) (r R, err error) {
	o := buildOptions(defaultOptions(), opts)
	defer func() { evaluationsTotal.WithLabelValues(kindEvaluate, outcome(err)).Inc() }()

	in, err := differentiable.For[P]()
	if err != nil {
		return r, err
	}
	o.registry.Seal()
	tape := autodiff.NewTape(autodiff.Config{Registry: o.registry, MaxEntries: o.maxEntries})
	bound := in.Bind(reflect.ValueOf(&p).Elem(), func(_ int, x autodiff.Var) autodiff.Var {
		return tape.Const(x.Value())
	})

	start := time.Now()
	r, err = call(o.registry, f, bound.Interface().(P))
	forwardDuration.WithLabelValues(kindEvaluate).Observe(time.Since(start).Seconds())
	if err != nil {
		return r, err
	}
	if _, serr := differentiable.For[R](); serr != nil {
		return r, nil
	}
	return differentiable.Detach(r)
}

// ValueAndPullback runs f on p, recording a trace, and returns the
// detached result with its pullback.
func ValueAndPullback[P, R any](f func(P) R, p P, opts ...Option) (r R, pb Pullback, err error) {
	o := buildOptions(defaultOptions(), opts)
	defer func() { evaluationsTotal.WithLabelValues(kindPullback, outcome(err)).Inc() }()

	tr, r, err := record(kindPullback, f, p, o)
	if err != nil {
		return r, nil, err
	}
	r, err = differentiable.Detach(r)
	if err != nil {
		return r, nil, err
	}
	return r, tr.pullback, nil
}

// ValueAndGradient runs f on p and returns the value and the gradient of
// its scalar output with respect to p. The output must have exactly one
// differentiable leaf; anything else fails with *UngradableOutputError.
func ValueAndGradient[P, R any](f func(P) R, p P, opts ...Option) (value float64, g tangent.Vector, err error) {
	o := buildOptions(defaultOptions(), opts)
	defer func() { evaluationsTotal.WithLabelValues(kindGradient, outcome(err)).Inc() }()

	if _, serr := differentiable.For[R](); serr != nil {
		return 0, nil, &UngradableOutputError{Type: reflect.TypeOf((*R)(nil)).Elem()}
	}
	tr, _, err := record(kindGradient, f, p, o)
	if err != nil {
		return 0, nil, err
	}
	outs := tr.out.Extract(tr.output)
	if len(outs) != 1 {
		return 0, nil, &UngradableOutputError{Type: tr.out.Type(), Leaves: len(outs)}
	}
	seed, err := tangent.FromLeaves(tr.out.Zero(tr.output), []float64{1})
	if err != nil {
		return 0, nil, err
	}
	g, err = tr.pullback(seed)
	if err != nil {
		return 0, nil, err
	}
	return outs[0].Value(), g, nil
}

// Gradient returns the gradient of f's scalar output at p.
func Gradient[P, R any](f func(P) R, p P, opts ...Option) (tangent.Vector, error) {
	_, g, err := ValueAndGradient(f, p, opts...)
	return g, err
}

// record runs f on p with a recording tape.
func record[P, R any](kind string, f func(P) R, p P, o options) (*trace, R, error) {
	var zero R
	in, err := differentiable.For[P]()
	if err != nil {
		return nil, zero, err
	}
	out, err := differentiable.For[R]()
	if err != nil {
		return nil, zero, fmt.Errorf("output: %w", err)
	}

	pv := reflect.ValueOf(&p).Elem()
	mask, err := respectMask(in, pv, o.respectTo)
	if err != nil {
		return nil, zero, err
	}

	o.registry.Seal()
	tape := autodiff.NewTape(autodiff.Config{Registry: o.registry, MaxEntries: o.maxEntries})
	tape.StartRecording()
	bound := in.Bind(pv, func(i int, x autodiff.Var) autodiff.Var {
		if mask != nil && !mask[i] {
			return tape.Const(x.Value())
		}
		return tape.Leaf(x.Value())
	})

	start := time.Now()
	r, err := call(o.registry, f, bound.Interface().(P))
	elapsed := time.Since(start)
	tape.StopRecording()
	forwardDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	traceEntries.Observe(float64(tape.NumOps()))

	o.logger.Debug().
		Str("kind", kind).
		Str("input", in.Type().String()).
		Int("entries", tape.NumOps()).
		Int("nodes", tape.NumNodes()).
		Dur("forward", elapsed).
		Err(err).
		Msg("trace recorded")
	if err != nil {
		return nil, zero, err
	}

	return &trace{
		tape:   tape,
		in:     in,
		input:  bound,
		out:    out,
		output: reflect.ValueOf(&r).Elem(),
	}, r, nil
}

// call runs f with reg resolving opaque calls on constants, converting
// engine aborts into errors.
func call[P, R any](reg *registry.Registry, f func(P) R, p P) (r R, err error) {
	exit := autodiff.Enter(reg)
	defer exit()
	defer autodiff.Recover(&err)
	return f(p), nil
}

// respectMask returns which input leaves are differentiated, or nil for all.
func respectMask(in *differentiable.Schema, pv reflect.Value, paths []string) ([]bool, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	mask := make([]bool, len(in.Extract(pv)))
	for _, path := range paths {
		idx, err := in.Resolve(pv, path)
		if err != nil {
			return nil, fmt.Errorf("respect to: %w", err)
		}
		for _, i := range idx {
			mask[i] = true
		}
	}
	return mask, nil
}

func (tr *trace) pullback(ct tangent.Vector) (tangent.Vector, error) {
	zero := tr.out.Zero(tr.output)
	if ct == nil || !tangent.SameShape(zero, ct) {
		return nil, fmt.Errorf("%w: cotangent %v for output shaped %s", tangent.ErrShapeMismatch, ct, zero)
	}

	outs := tr.out.Extract(tr.output)
	leaves := ct.Leaves()
	seeds := make([]autodiff.Seed, len(outs))
	for i, v := range outs {
		seeds[i] = autodiff.Seed{Var: v, Cotangent: leaves[i]}
	}

	start := time.Now()
	adj, err := tr.tape.Backward(seeds...)
	backwardDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return tr.in.Tangent(tr.input, func(_ int, x autodiff.Var) float64 {
		return adj.Of(x)
	}), nil
}
