package grad

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/born-ml/gradtape/internal/parallel"
	"github.com/born-ml/gradtape/internal/registry"
	"github.com/born-ml/gradtape/internal/tangent"
)

// Config configures an Engine.
type Config struct {
	Registry    *registry.Registry // Derivative registry (default: registry.Default)
	Logger      zerolog.Logger     // Debug logging per evaluation
	MaxEntries  int                // Trace entry bound per evaluation; 0 means unbounded
	Parallelism int                // Concurrent evaluations in Batch; <= 1 runs sequentially
}

// Engine carries a fixed configuration for repeated evaluations. The
// package functions accept it through Options.
type Engine struct {
	opts     options
	parallel parallel.Config
}

// New creates an engine.
func New(cfg Config) *Engine {
	o := defaultOptions()
	if cfg.Registry != nil {
		o.registry = cfg.Registry
	}
	o.logger = cfg.Logger
	o.maxEntries = cfg.MaxEntries

	pc := parallel.Config{Enabled: cfg.Parallelism > 1, NumWorkers: cfg.Parallelism, MinChunkSize: 1}
	return &Engine{opts: o, parallel: pc}
}

// Options returns the engine configuration as options, followed by extra.
func (e *Engine) Options(extra ...Option) []Option {
	base := e.opts
	opts := []Option{func(o *options) {
		respect := append([]string(nil), o.respectTo...)
		*o = base
		o.respectTo = append(o.respectTo, respect...)
	}}
	return append(opts, extra...)
}

// Registry returns the engine's derivative registry.
func (e *Engine) Registry() *registry.Registry { return e.opts.registry }

// Result is one input's value and gradient.
type Result struct {
	Value    float64
	Gradient tangent.Vector
}

// Batch computes ValueAndGradient for every input, running up to the
// engine's parallelism concurrently. Each evaluation owns its trace. The
// first failure cancels the rest and is returned with the input's index.
func Batch[P, R any](ctx context.Context, e *Engine, f func(P) R, inputs []P, opts ...Option) ([]Result, error) {
	batchSize.Observe(float64(len(inputs)))
	all := e.Options(opts...)
	results := make([]Result, len(inputs))
	err := parallel.ForErr(ctx, len(inputs), func(_ context.Context, i int) error {
		v, g, err := ValueAndGradient(f, inputs[i], all...)
		if err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
		results[i] = Result{Value: v, Gradient: g}
		return nil
	}, e.parallel)
	if err != nil {
		return nil, err
	}

	e.opts.logger.Debug().Int("inputs", len(inputs)).Int("workers", e.parallel.NumWorkers).Msg("batch complete")
	return results, nil
}

// EvaluateBatch runs Evaluate for every input across the engine's workers.
// It does not stop at a failure: every input is evaluated and the errors
// are joined, each prefixed with its input's index.
func EvaluateBatch[P, R any](e *Engine, f func(P) R, inputs []P, opts ...Option) ([]R, error) {
	all := e.Options(opts...)
	out := make([]R, len(inputs))
	errs := make([]error, len(inputs))
	parallel.For(len(inputs), func(i int) {
		r, err := Evaluate(f, inputs[i], all...)
		if err != nil {
			errs[i] = fmt.Errorf("input %d: %w", i, err)
			return
		}
		out[i] = r
	}, e.parallel)
	return out, errors.Join(errs...)
}
