// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers for differentiable
// values.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Parameters are any value the autodiff package can differentiate: a Var,
// a slice of Vars, or a struct of them. Gradients are tangent vectors of
// the same shape, as returned by autodiff.Gradient.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/gradtape/autodiff"
//	    "github.com/born-ml/gradtape/optim"
//	)
//
//	type Line struct {
//	    Slope, Intercept autodiff.Var
//	}
//
//	func main() {
//	    params := Line{}
//	    optimizer := optim.NewAdam[Line](optim.AdamConfig{LR: 0.05})
//
//	    for range 1000 {
//	        // Forward and backward pass
//	        _, g, err := autodiff.ValueAndGradient(loss, params)
//	        if err != nil {
//	            return err
//	        }
//
//	        // Update parameters
//	        if err := optimizer.Step(&params, g); err != nil {
//	            return err
//	        }
//	    }
//	}
//
// # Checkpointing
//
// Both optimizers implement Stateful; StateDict returns their buffers and
// LoadStateDict restores them for parameters of the same shape.
package optim
