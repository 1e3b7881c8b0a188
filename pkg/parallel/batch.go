package parallel

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-semigraph/pkg/engine"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/metrics"
)

// ErrBatchClosed marks results of jobs submitted after Close.
var ErrBatchClosed = errors.New("batch runner is closed")

// Job is one named invocation to run against the shared backend.
type Job struct {
	Name string
	Run  func(engine.Backend) (any, error)
}

// JobResult pairs a job's outcome with its identity. Exactly one of
// Value and Err is meaningful.
type JobResult struct {
	ID      string
	Name    string
	Value   any
	Err     error
	Elapsed time.Duration
}

// BatchRunner fans jobs out over a worker pool sharing one backend.
// The engine deduplicates matrix builds, so concurrent jobs against a
// fresh engine wait on a single build instead of racing their own.
type BatchRunner struct {
	backend engine.Backend
	pool    *WorkerPool
	log     logging.Logger
	metrics *metrics.Registry
}

// BatchOption adjusts a BatchRunner at construction time.
type BatchOption func(*BatchRunner)

// WithBatchLogger replaces the default logger.
func WithBatchLogger(log logging.Logger) BatchOption {
	return func(r *BatchRunner) { r.log = log.With(logging.Component("batch")) }
}

// WithBatchMetrics replaces the default metrics registry.
func WithBatchMetrics(reg *metrics.Registry) BatchOption {
	return func(r *BatchRunner) { r.metrics = reg }
}

// NewBatchRunner wraps a backend with a pool of the given size. Zero
// workers means one per available CPU.
func NewBatchRunner(backend engine.Backend, workers int, opts ...BatchOption) (*BatchRunner, error) {
	if backend == nil {
		return nil, errors.New("batch runner requires a backend")
	}
	pool, err := NewWorkerPool(workers)
	if err != nil {
		return nil, err
	}

	r := &BatchRunner{
		backend: backend,
		pool:    pool,
		log:     logging.DefaultLogger().With(logging.Component("batch")),
		metrics: metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log.Debug("batch runner ready", logging.Workers(pool.Workers()))
	return r, nil
}

// Run executes every job and blocks until all have finished. Results
// come back in request order regardless of completion order. A failed
// or panicking job fills its own slot; the rest of the batch proceeds.
func (r *BatchRunner) Run(jobs []Job) []JobResult {
	results := make([]JobResult, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	pending := int64(len(jobs))
	r.metrics.SetBatchQueueDepth(int(pending))

	var wg sync.WaitGroup
	for i, job := range jobs {
		i, job := i, job
		id := uuid.NewString()

		wg.Add(1)
		ok := r.pool.Submit(func() {
			defer wg.Done()
			results[i] = r.runJob(id, job)
			r.metrics.SetBatchQueueDepth(int(atomic.AddInt64(&pending, -1)))
		})
		if !ok {
			results[i] = JobResult{ID: id, Name: job.Name, Err: ErrBatchClosed}
			r.metrics.SetBatchQueueDepth(int(atomic.AddInt64(&pending, -1)))
			wg.Done()
		}
	}
	wg.Wait()
	return results
}

// runJob executes one job, converting a panic into that job's error.
func (r *BatchRunner) runJob(id string, job Job) (res JobResult) {
	start := time.Now()
	log := r.log.With(logging.Algorithm(job.Name), logging.Invocation(id))
	log.Debug("job started")

	res = JobResult{ID: id, Name: job.Name}
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("job %s panicked: %v", job.Name, p)
		}
		res.Elapsed = time.Since(start)
		if res.Err != nil {
			r.metrics.RecordBatchJob("error", res.Elapsed)
			log.Error("job failed", logging.Error(res.Err))
			return
		}
		r.metrics.RecordBatchJob("success", res.Elapsed)
		log.Info("job finished", logging.Latency(res.Elapsed))
	}()

	res.Value, res.Err = job.Run(r.backend)
	return res
}

// Close stops accepting jobs and waits for in-flight ones.
func (r *BatchRunner) Close() {
	r.pool.Close()
}
