// Package metrics exposes Prometheus instrumentation for the engine:
// algorithm invocations, adjacency builds and cache behavior, batch
// execution, and process health.
package metrics

import (
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Invocation metrics
	InvocationsTotal     *prometheus.CounterVec
	InvocationDuration   *prometheus.HistogramVec
	InvocationIterations *prometheus.HistogramVec
	ConvergenceFailures  *prometheus.CounterVec

	// Adjacency build metrics
	BuildsTotal       *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	MatrixNodes       prometheus.Gauge
	MatrixEntries     prometheus.Gauge
	MatrixCacheHits   prometheus.Counter
	MatrixCacheMisses prometheus.Counter

	// Batch metrics
	BatchJobsTotal   *prometheus.CounterVec
	BatchJobDuration prometheus.Histogram
	BatchQueueDepth  prometheus.Gauge

	// System metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initInvocationMetrics()
	r.initBuildMetrics()
	r.initBatchMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordInvocation records one algorithm call with its duration and the
// number of iterations the driver ran.
func (r *Registry) RecordInvocation(algorithm, status string, duration time.Duration, iterations int) {
	r.InvocationsTotal.WithLabelValues(algorithm, status).Inc()
	r.InvocationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if iterations > 0 {
		r.InvocationIterations.WithLabelValues(algorithm).Observe(float64(iterations))
	}
}

// RecordConvergenceFailure records an iteration budget exhausted without a
// fixed point.
func (r *Registry) RecordConvergenceFailure(algorithm string) {
	r.ConvergenceFailures.WithLabelValues(algorithm).Inc()
}

// RecordBuild records one adjacency materialization and the size of the
// resulting matrix.
func (r *Registry) RecordBuild(status string, duration time.Duration, nodes, entries int) {
	r.BuildsTotal.WithLabelValues(status).Inc()
	r.BuildDuration.Observe(duration.Seconds())
	if status == "success" {
		r.MatrixNodes.Set(float64(nodes))
		r.MatrixEntries.Set(float64(entries))
	}
}

// RecordCacheHit counts a matrix served from cache.
func (r *Registry) RecordCacheHit() {
	r.MatrixCacheHits.Inc()
}

// RecordCacheMiss counts a matrix that had to be built.
func (r *Registry) RecordCacheMiss() {
	r.MatrixCacheMisses.Inc()
}

// RecordBatchJob records one job executed by the batch runner.
func (r *Registry) RecordBatchJob(status string, duration time.Duration) {
	r.BatchJobsTotal.WithLabelValues(status).Inc()
	r.BatchJobDuration.Observe(duration.Seconds())
}

// SetBatchQueueDepth reports the number of jobs waiting for a worker.
func (r *Registry) SetBatchQueueDepth(n int) {
	r.BatchQueueDepth.Set(float64(n))
}

// UpdateSystemMetrics refreshes the process health gauges.
func (r *Registry) UpdateSystemMetrics(start time.Time) {
	r.UptimeSeconds.Set(time.Since(start).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
