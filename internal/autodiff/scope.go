package autodiff

import (
	"sync"

	"github.com/born-ml/gradtape/internal/registry"
)

// scope tracks the registries of evaluations in flight. Opaque calls whose
// arguments are all tapeless constants cannot reach a tape's registry, so
// they resolve through the single registry in use, or registry.Default when
// no evaluation is running.
var scope = struct {
	mu     sync.Mutex
	active map[*registry.Registry]int
}{active: make(map[*registry.Registry]int)}

// Enter makes r the registry that resolves opaque calls on tapeless
// constants until the returned function is called. Evaluations that run
// concurrently may enter the same registry; entering different ones at once
// makes such calls abort with ErrAmbiguousRegistry, and callers should then
// bind constants with Tape.Const.
func Enter(r *registry.Registry) (exit func()) {
	scope.mu.Lock()
	scope.active[r]++
	scope.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			scope.mu.Lock()
			defer scope.mu.Unlock()
			if scope.active[r]--; scope.active[r] <= 0 {
				delete(scope.active, r)
			}
		})
	}
}

// constantRegistry returns the registry for a call with no tape.
func constantRegistry() *registry.Registry {
	scope.mu.Lock()
	defer scope.mu.Unlock()
	switch len(scope.active) {
	case 0:
		return registry.Default
	case 1:
		for r := range scope.active {
			return r
		}
	}
	abort(ErrAmbiguousRegistry)
	return nil
}
