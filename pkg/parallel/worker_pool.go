// Package parallel runs algorithm invocations concurrently: a bounded
// worker pool and a batch runner that fans jobs out over one shared
// backend.
package parallel

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/dd0wney/cluso-semigraph/pkg/logging"
)

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// MaxWorkers caps a pool so the task buffer size cannot overflow.
const MaxWorkers = math.MaxInt / 2

// WorkerPool runs submitted tasks on a fixed set of goroutines.
type WorkerPool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	log     logging.Logger

	mu     sync.RWMutex // guards tasks against close during send
	closed bool
}

// NewWorkerPool starts a pool of the given size. Zero or negative means
// one worker per available CPU.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	p := &WorkerPool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
		log:     logging.DefaultLogger().With(logging.Component("parallel")),
	}
	p.start()
	return p, nil
}

// Workers reports the pool size.
func (p *WorkerPool) Workers() int { return p.workers }

func (p *WorkerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker drains the task queue until it is closed. A panicking task is
// logged and the worker keeps running.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					p.log.Error("task panic recovered", logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit queues a task. It returns false once the pool is closed.
func (p *WorkerPool) Submit(task func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}
	// Sending is safe here: Close takes the write lock before closing
	// the channel, so it cannot interleave with this send.
	p.tasks <- task
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
// It is safe to call more than once.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// Wait blocks until every submitted task has completed. The pool is
// closed afterwards.
func (p *WorkerPool) Wait() {
	p.Close()
}
