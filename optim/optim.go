// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/gradtape/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer[P any] = optim.Optimizer[P]

// Stateful is implemented by optimizers that can be checkpointed.
type Stateful[P any] = optim.Stateful[P]

// State holds an optimizer's buffers.
type State = optim.State

// UnknownOptimizerError is returned by New for an unsupported kind.
type UnknownOptimizerError = optim.UnknownOptimizerError

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD[P any] = optim.SGD[P]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD[Params](optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGD[P any](config SGDConfig) *SGD[P] {
	return optim.NewSGD[P](config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam[P any] = optim.Adam[P]

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam[Params](optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam[P any](config AdamConfig) *Adam[P] {
	return optim.NewAdam[P](config)
}

// New creates the optimizer named by kind ("sgd" or "adam").
func New[P any](kind string, lr, momentum float64) (Optimizer[P], error) {
	return optim.New[P](kind, lr, momentum)
}
