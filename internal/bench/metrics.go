package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	caseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gradtape_bench_duration_seconds",
		Help:    "Benchmark trial duration by suite, case and pass",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 14),
	}, []string{"suite", "case", "pass"})

	caseRatio = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gradtape_bench_reverse_forward_ratio",
		Help: "Mean gradient time over mean forward time of the last run",
	}, []string{"suite", "case"})
)
