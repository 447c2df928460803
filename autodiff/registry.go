// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"github.com/born-ml/gradtape/internal/registry"
)

// Derivative registry types.
type (
	Registry       = registry.Registry
	Key            = registry.Key
	VJP            = registry.VJP
	ScalarPullback = registry.Pullback
)

// Registry errors.
var (
	ErrDuplicateRegistration = registry.ErrDuplicateRegistration
	ErrRegistrySealed        = registry.ErrRegistrySealed
)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry { return registry.New() }

// Register adds a derivative to the default registry. Registration must
// happen before the first evaluation.
func Register(name string, arity int, vjp VJP) error {
	return registry.Default.Register(Key{Name: name, Arity: arity}, vjp)
}
