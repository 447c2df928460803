package grad

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradtape_evaluations_total",
		Help: "Total number of evaluations by kind and outcome",
	}, []string{"kind", "outcome"})

	traceEntries = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gradtape_trace_entries",
		Help:    "Number of trace entries recorded per evaluation",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	forwardDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradtape_forward_duration_seconds",
		Help:    "Time spent running the differentiable function",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"kind"})

	backwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gradtape_backward_duration_seconds",
		Help:    "Time spent composing pullbacks",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
	})

	batchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gradtape_batch_size",
		Help:    "Number of inputs per batch gradient call",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)

// Evaluation kinds used as metric labels.
const (
	kindEvaluate = "evaluate"
	kindGradient = "gradient"
	kindPullback = "pullback"
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
