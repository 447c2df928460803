// Package optim implements gradient-descent updates for differentiable
// values.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Parameters are any differentiable value (see package differentiable).
// Gradients are tangent vectors of the parameter type; updates are applied
// with differentiable.Move, so non-differentiable fields are never touched.
//
// Example usage:
//
//	opt := optim.NewSGD[Params](optim.SGDConfig{LR: 0.1})
//
//	for range steps {
//	    _, g, err := grad.ValueAndGradient(loss, params)
//	    if err != nil {
//	        return err
//	    }
//	    if err := opt.Step(&params, g); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/tangent"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply a gradient update to the parameters
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer[P any] interface {
	// Step moves *p against grad. grad must have the tangent shape of *p.
	Step(p *P, grad tangent.Vector) error

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	SetLR(lr float64)
}

// Stateful is implemented by optimizers whose buffers can be saved and
// restored across runs.
type Stateful[P any] interface {
	StateDict() State
	LoadStateDict(p P, st State) error
}

// State is an optimizer's internal buffers, keyed by name, for
// checkpointing.
type State map[string][]float64

// restore returns the buffer stored under key, reshaped like like.
func (s State) restore(key string, like tangent.Vector) (tangent.Vector, error) {
	leaves, ok := s[key]
	if !ok {
		return nil, nil
	}
	v, err := tangent.FromLeaves(like, leaves)
	if err != nil {
		return nil, fmt.Errorf("optimizer state %q: %w", key, err)
	}
	return v, nil
}

// UnknownOptimizerError is returned by New for an unsupported kind.
type UnknownOptimizerError struct {
	Kind string
}

// Error implements the error interface.
func (e *UnknownOptimizerError) Error() string {
	return fmt.Sprintf("unknown optimizer %q (want sgd or adam)", e.Kind)
}

// New creates the optimizer named by kind ("sgd" or "adam").
func New[P any](kind string, lr, momentum float64) (Optimizer[P], error) {
	switch kind {
	case "sgd", "":
		return NewSGD[P](SGDConfig{LR: lr, Momentum: momentum}), nil
	case "adam":
		return NewAdam[P](AdamConfig{LR: lr}), nil
	}
	return nil, &UnknownOptimizerError{Kind: kind}
}
