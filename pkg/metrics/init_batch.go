package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initBatchMetrics() {
	r.BatchJobsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "semigraph_batch_jobs_total",
			Help: "Total number of batch jobs executed",
		},
		[]string{"status"},
	)

	r.BatchJobDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "semigraph_batch_job_duration_seconds",
			Help:    "Batch job duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1.0, 10.0},
		},
	)

	r.BatchQueueDepth = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "semigraph_batch_queue_depth",
			Help: "Jobs waiting for a batch worker",
		},
	)
}
