// Package registry maps opaque operations to hand-written vector-Jacobian
// products.
//
// Operations the engine cannot decompose (elementary math functions,
// precompiled routines, anything the author prefers not to trace) are
// registered once at startup under a stable Key. During evaluation the
// registry is read-only: the driver seals it before the first trace is
// recorded, and later registrations fail.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Key identifies an operation by name and argument signature.
// Every argument and the result are float64 scalars, so the arity is the
// whole signature.
type Key struct {
	Name  string
	Arity int
}

// String renders the key as "name(float64, float64)".
func (k Key) String() string {
	args := make([]string, k.Arity)
	for i := range args {
		args[i] = "float64"
	}
	return k.Name + "(" + strings.Join(args, ", ") + ")"
}

// Pullback maps the output cotangent to one cotangent per argument.
type Pullback func(cotangent float64) []float64

// VJP computes the forward value of an operation together with the
// pullback that maps an output cotangent back to its arguments. The
// pullback captures every primal it needs; it never reads state that can
// change after the VJP returns.
type VJP func(args []float64) (value float64, pullback Pullback)

// Registry maps operation keys to VJP functions.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Key]VJP
	sealed   bool
	logger   zerolog.Logger
}

// Default is the process-wide registry. Elementary math functions are added
// to it by package dmath at init time.
var Default = New()

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		handlers: make(map[Key]VJP),
		logger:   zerolog.Nop(),
	}
}

// SetLogger sets the logger used to report registrations.
func (r *Registry) SetLogger(logger zerolog.Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Register adds a VJP under key.
//
// Fails with *DuplicateRegistrationError if key is already present,
// ErrRegistrySealed after Seal, and ErrInvalidKey for an empty name or an
// arity below one. An existing registration is never overwritten.
func (r *Registry) Register(key Key, vjp VJP) error {
	if key.Name == "" || key.Arity < 1 || vjp == nil {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrRegistrySealed, key)
	}
	if _, exists := r.handlers[key]; exists {
		return &DuplicateRegistrationError{Key: key}
	}
	r.handlers[key] = vjp
	r.logger.Debug().Str("op", key.String()).Msg("registered derivative")
	return nil
}

// MustRegister is like Register but panics on error. Intended for init blocks.
func (r *Registry) MustRegister(key Key, vjp VJP) {
	if err := r.Register(key, vjp); err != nil {
		panic(err)
	}
}

// Lookup returns the VJP registered under key.
func (r *Registry) Lookup(key Key) (VJP, bool) {
	r.mu.RLock()
	vjp, ok := r.handlers[key]
	r.mu.RUnlock()
	return vjp, ok
}

// Seal freezes the registry. Calling Seal more than once is harmless.
func (r *Registry) Seal() {
	r.mu.Lock()
	if !r.sealed {
		r.sealed = true
		r.logger.Debug().Int("ops", len(r.handlers)).Msg("derivative registry sealed")
	}
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Keys returns all registered keys sorted by name, then arity.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Arity < keys[j].Arity
	})
	return keys
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
