package bench

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/gradtape/internal/config"
	"github.com/born-ml/gradtape/internal/grad"
)

// Stats summarizes trial durations.
type Stats struct {
	Mean   time.Duration
	StdDev time.Duration
}

func summarize(samples []float64) Stats {
	mean, std := stat.MeanStdDev(samples, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return Stats{
		Mean:   time.Duration(mean * float64(time.Second)),
		StdDev: time.Duration(std * float64(time.Second)),
	}
}

// Result is the measurement of one case.
type Result struct {
	Suite    string
	Case     string
	Trials   int
	Value    float64 // Function value at the benchmarked input
	Forward  Stats
	Gradient Stats
	Ratio    float64 // Mean gradient time over mean forward time
}

// Sink keeps benchmark outputs reachable so the measured work cannot be
// optimized away.
type Sink struct {
	last  float64
	count int
}

// Keep records x.
func (s *Sink) Keep(x float64) {
	s.last = x
	s.count++
}

// Count returns the number of values kept.
func (s *Sink) Count() int { return s.count }

// Runner measures suites. A Runner is not safe for concurrent use.
type Runner struct {
	Trials int
	Logger zerolog.Logger
	Tracer trace.Tracer
	Sink   *Sink
	Opts   []grad.Option // Applied to every gradient evaluation
}

// NewRunner creates a runner from cfg using the global tracer provider.
func NewRunner(cfg config.BenchConfig, logger zerolog.Logger, opts ...grad.Option) *Runner {
	return &Runner{
		Trials: cfg.Trials,
		Logger: logger,
		Tracer: otel.Tracer("github.com/born-ml/gradtape/internal/bench"),
		Sink:   &Sink{},
		Opts:   opts,
	}
}

// Run measures every case of s for r.Trials trials each. It stops between
// trials when ctx is done.
func (r *Runner) Run(ctx context.Context, s Suite) (results []Result, err error) {
	ctx, span := r.Tracer.Start(ctx, "bench.suite", trace.WithAttributes(
		attribute.String("suite", s.Name),
		attribute.Int("cases", len(s.Cases)),
		attribute.Int("trials", r.Trials),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	for _, c := range s.Cases {
		res, err := r.runCase(ctx, s.Name, c)
		if err != nil {
			return results, fmt.Errorf("%s/%s: %w", s.Name, c.Name, err)
		}
		results = append(results, res)
		r.Logger.Info().
			Str("suite", s.Name).
			Str("case", c.Name).
			Dur("forward", res.Forward.Mean).
			Dur("gradient", res.Gradient.Mean).
			Float64("ratio", res.Ratio).
			Msg("benchmark case")
	}
	return results, nil
}

// RunAll measures every suite in order.
func (r *Runner) RunAll(ctx context.Context, suites []Suite) ([]Result, error) {
	var all []Result
	for _, s := range suites {
		res, err := r.Run(ctx, s)
		all = append(all, res...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

func (r *Runner) runCase(ctx context.Context, suite string, c Case) (Result, error) {
	trials := max(r.Trials, 1)
	sink := r.Sink
	if sink == nil {
		sink = &Sink{}
	}
	fwdHist := caseDuration.WithLabelValues(suite, c.Name, "forward")
	revHist := caseDuration.WithLabelValues(suite, c.Name, "gradient")

	forward := make([]float64, 0, trials)
	reverse := make([]float64, 0, trials)
	var value float64
	for range trials {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		start := time.Now()
		value = c.Forward()
		elapsed := time.Since(start).Seconds()
		sink.Keep(value)
		forward = append(forward, elapsed)
		fwdHist.Observe(elapsed)

		start = time.Now()
		v, g, err := c.Gradient(r.Opts...)
		elapsed = time.Since(start).Seconds()
		if err != nil {
			return Result{}, err
		}
		sink.Keep(v)
		sink.Keep(g.Leaves()[0])
		reverse = append(reverse, elapsed)
		revHist.Observe(elapsed)
	}

	res := Result{
		Suite:    suite,
		Case:     c.Name,
		Trials:   trials,
		Value:    value,
		Forward:  summarize(forward),
		Gradient: summarize(reverse),
	}
	if res.Forward.Mean > 0 {
		res.Ratio = float64(res.Gradient.Mean) / float64(res.Forward.Mean)
	}
	caseRatio.WithLabelValues(suite, c.Name).Set(res.Ratio)
	return res, nil
}
