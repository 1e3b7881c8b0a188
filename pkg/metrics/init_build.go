package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBuildMetrics() {
	r.BuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "semigraph_builds_total",
			Help: "Total number of adjacency matrix builds",
		},
		[]string{"status"},
	)

	r.BuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "semigraph_build_duration_seconds",
			Help:    "Adjacency matrix build duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 10.0},
		},
	)

	r.MatrixNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "semigraph_matrix_nodes",
			Help: "Dimension of the most recently built matrix",
		},
	)

	r.MatrixEntries = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "semigraph_matrix_entries",
			Help: "Stored entries in the most recently built matrix",
		},
	)

	r.MatrixCacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "semigraph_matrix_cache_hits_total",
			Help: "Matrix requests served from cache",
		},
	)

	r.MatrixCacheMisses = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "semigraph_matrix_cache_misses_total",
			Help: "Matrix requests that required a build",
		},
	)
}
