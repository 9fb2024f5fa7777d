// Package metrics exposes the process's Prometheus instruments. Everything
// registers on the default registry and is served by the router's /metrics
// endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OptimiseRuns counts optimisation runs by trigger (api, queue, batch)
	// and outcome (ok, error).
	OptimiseRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimiser_runs_total",
		Help: "Total optimisation runs, labelled by trigger and outcome.",
	}, []string{"trigger", "outcome"})

	OptimiseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimiser_run_duration_seconds",
		Help:    "Wall time of a single optimisation run.",
		Buckets: prometheus.DefBuckets,
	})

	QueueJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimiser_queue_jobs_total",
		Help: "Queue jobs processed, labelled by outcome.",
	}, []string{"outcome"})
)

// ObserveRun records one optimisation run.
func ObserveRun(trigger string, outcome string, seconds float64) {
	OptimiseRuns.WithLabelValues(trigger, outcome).Inc()
	OptimiseDuration.Observe(seconds)
}
