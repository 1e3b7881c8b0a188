package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInvocationMetrics() {
	r.InvocationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "semigraph_invocations_total",
			Help: "Total number of algorithm invocations",
		},
		[]string{"algorithm", "status"},
	)

	r.InvocationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semigraph_invocation_duration_seconds",
			Help:    "Algorithm invocation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
		},
		[]string{"algorithm"},
	)

	r.InvocationIterations = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "semigraph_invocation_iterations",
			Help:    "Fixed-point iterations per invocation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"algorithm"},
	)

	r.ConvergenceFailures = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "semigraph_convergence_failures_total",
			Help: "Invocations that exhausted their iteration budget",
		},
		[]string{"algorithm"},
	)
}
