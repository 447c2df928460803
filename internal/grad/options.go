package grad

import (
	"github.com/rs/zerolog"

	"github.com/born-ml/gradtape/internal/registry"
)

// Option configures a single evaluation.
type Option func(*options)

type options struct {
	registry   *registry.Registry
	logger     zerolog.Logger
	maxEntries int
	respectTo  []string
}

func defaultOptions() options {
	return options{
		registry: registry.Default,
		logger:   zerolog.Nop(),
	}
}

func buildOptions(base options, opts []Option) options {
	o := base
	o.respectTo = append([]string(nil), base.respectTo...)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRegistry resolves opaque operations through r instead of
// registry.Default. The registry is sealed by the first evaluation that
// uses it.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLogger sets the logger for per-evaluation debug lines.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxEntries bounds the number of trace entries one evaluation may
// record. Zero means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// WithRespectTo restricts differentiation to the input leaves under the
// given paths ("tube", "slab.area", "xs[2]"). Other leaves are treated as
// constants and receive zero cotangent. Paths naming fields tagged ad:"-"
// are rejected before evaluation.
func WithRespectTo(paths ...string) Option {
	return func(o *options) {
		o.respectTo = append(o.respectTo, paths...)
	}
}
