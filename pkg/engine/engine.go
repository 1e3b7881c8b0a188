// Package engine ties a graph source to the algorithm kernels. It builds
// and caches adjacency matrices, translates node labels to matrix indices
// and back, enforces per-algorithm directedness requirements, and
// instruments every invocation with structured logs and Prometheus
// metrics.
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dd0wney/cluso-semigraph/pkg/adjacency"
	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/kernels"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/metrics"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// Backend is the algorithm surface of the engine, keyed by node label.
// Engine is the canonical implementation; the batch runner and the
// command-line tools depend on this interface rather than the struct.
type Backend interface {
	PageRank() (map[string]float64, error)
	HITS() (map[string]float64, map[string]float64, error)
	SingleSourceShortestPathLength(source string) (map[string]int, error)
	SingleSourceBellmanFordPathLength(source string) (map[string]float64, error)
	Descendants(source string) (map[string]bool, error)
	Triangles() (map[string]int, error)
	Clustering() (map[string]float64, error)
	Transitivity() (float64, error)
	AverageClustering() (float64, error)
	ConnectedComponents() ([][]string, error)
	NumberConnectedComponents() (int, error)
	WeaklyConnectedComponents() ([][]string, error)
	StronglyConnectedComponents() ([][]string, error)
	DegreeCentrality() (map[string]float64, error)
	InDegreeCentrality() (map[string]float64, error)
	OutDegreeCentrality() (map[string]float64, error)
	BetweennessCentrality() (map[string]float64, error)
	IsDominatingSet(nodes []string) (bool, error)
}

// Engine runs algorithms against one graph source. It is safe for
// concurrent use; concurrent calls share a single matrix build.
type Engine struct {
	src     graph.Source
	cfg     Config
	log     logging.Logger
	metrics *metrics.Registry

	group singleflight.Group
	mu    sync.Mutex
	built *adjacency.Result
	sym   *sparse.Matrix
}

var _ Backend = (*Engine)(nil)

// Option adjusts an Engine at construction time.
type Option func(*Engine)

// WithLogger replaces the default logger.
func WithLogger(log logging.Logger) Option {
	return func(e *Engine) { e.log = log.With(logging.Component("engine")) }
}

// WithMetrics replaces the default metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = reg }
}

// New validates the config and wraps the source. The source is not read
// until the first algorithm call.
func New(src graph.Source, cfg Config, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, kernels.NewError("engine").
			Detail("graph source is nil").
			Cause(kernels.ErrInvalidGraph).Err()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		src:     src,
		cfg:     cfg,
		log:     logging.DefaultLogger().With(logging.Component("engine")),
		metrics: metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Invalidate drops every cached matrix. Call it after mutating the
// source; the next algorithm call rebuilds from scratch.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.built, e.sym = nil, nil
	e.mu.Unlock()
	e.log.Debug("matrix cache invalidated")
}

// Summary describes the graph as built, for display surfaces.
type Summary struct {
	Nodes    int
	Entries  int
	Directed bool
}

// Summary builds (or reuses) the adjacency matrix and reports its shape.
func (e *Engine) Summary() (Summary, error) {
	built, err := e.matrices()
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Nodes:    built.Index.Len(),
		Entries:  built.Matrix.Nvals(),
		Directed: built.Directed,
	}, nil
}

// matrices returns the built adjacency matrix and label index, building
// once per cache generation. Concurrent callers share one build.
func (e *Engine) matrices() (*adjacency.Result, error) {
	e.mu.Lock()
	cached := e.built
	e.mu.Unlock()
	if cached != nil {
		e.metrics.RecordCacheHit()
		return cached, nil
	}
	e.metrics.RecordCacheMiss()

	v, err, _ := e.group.Do("adjacency", func() (any, error) {
		e.mu.Lock()
		if e.built != nil {
			res := e.built
			e.mu.Unlock()
			return res, nil
		}
		e.mu.Unlock()

		start := time.Now()
		res, err := adjacency.Build(e.src, adjacency.Options{
			WeightAttr:  e.cfg.WeightAttr,
			OnDuplicate: e.cfg.duplicatePolicy(),
		})
		if err != nil {
			e.metrics.RecordBuild("error", time.Since(start), 0, 0)
			return nil, err
		}
		e.metrics.RecordBuild("success", time.Since(start), res.Index.Len(), res.Matrix.Nvals())
		e.log.Debug("adjacency matrix built",
			logging.Nodes(res.Index.Len()),
			logging.Edges(res.Matrix.Nvals()),
			logging.Latency(time.Since(start)))

		if e.cfg.CacheMatrices {
			e.mu.Lock()
			e.built = res
			e.mu.Unlock()
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*adjacency.Result), nil
}

// symmetrized returns the union of the adjacency matrix with its
// transpose, keeping the forward weight where both directions exist.
// Weak connectivity on directed graphs runs over this matrix.
func (e *Engine) symmetrized() (*sparse.Matrix, *adjacency.IndexMap, error) {
	built, err := e.matrices()
	if err != nil {
		return nil, nil, err
	}

	e.mu.Lock()
	cached := e.sym
	e.mu.Unlock()
	if cached != nil {
		e.metrics.RecordCacheHit()
		return cached, built.Index, nil
	}
	e.metrics.RecordCacheMiss()

	v, _, _ := e.group.Do("symmetrized", func() (any, error) {
		e.mu.Lock()
		if e.sym != nil {
			S := e.sym
			e.mu.Unlock()
			return S, nil
		}
		e.mu.Unlock()

		S := built.Matrix.EWiseAdd(built.Matrix.Transpose(), semiring.First)
		if e.cfg.CacheMatrices {
			e.mu.Lock()
			e.sym = S
			e.mu.Unlock()
		}
		return S, nil
	})
	return v.(*sparse.Matrix), built.Index, nil
}

// invocation carries per-call identity through logs and metrics.
type invocation struct {
	e     *Engine
	alg   string
	start time.Time
	log   logging.Logger
}

func (e *Engine) begin(algorithm string) *invocation {
	inv := &invocation{
		e:     e,
		alg:   algorithm,
		start: time.Now(),
		log: e.log.With(
			logging.Algorithm(algorithm),
			logging.Invocation(uuid.NewString()),
		),
	}
	inv.log.Debug("invocation started")
	return inv
}

// fail records the error outcome and passes the error through, so call
// sites read `return nil, inv.fail(err)`.
func (inv *invocation) fail(err error) error {
	inv.e.metrics.RecordInvocation(inv.alg, "error", time.Since(inv.start), 0)
	inv.log.Error("invocation failed", logging.Error(err))
	return err
}

// finish records a successful non-iterative invocation.
func (inv *invocation) finish() {
	inv.e.metrics.RecordInvocation(inv.alg, "success", time.Since(inv.start), 0)
	inv.log.Info("invocation finished", logging.Latency(time.Since(inv.start)))
}

// finishIter records a successful iterative invocation. Budget
// exhaustion without convergence is a warning, not an error; callers
// that treat it as fatal do so before reaching here.
func (inv *invocation) finishIter(iterations int, converged bool) {
	inv.e.metrics.RecordInvocation(inv.alg, "success", time.Since(inv.start), iterations)
	if !converged {
		inv.e.metrics.RecordConvergenceFailure(inv.alg)
		inv.log.Warn("iteration budget exhausted before convergence",
			logging.Iterations(iterations))
		return
	}
	inv.log.Info("invocation finished",
		logging.Iterations(iterations),
		logging.Converged(true),
		logging.Latency(time.Since(inv.start)))
}

// resolve maps a node label to its matrix index.
func (inv *invocation) resolve(index *adjacency.IndexMap, label string) (int, error) {
	id, ok := index.IDOf(label)
	if !ok {
		return 0, kernels.NewError(inv.alg).Node(label).
			Detail("node not in graph").
			Cause(kernels.ErrInvalidGraph).Err()
	}
	return id, nil
}

// requireUndirected rejects algorithms that are defined only on
// undirected graphs.
func (inv *invocation) requireUndirected(directed bool) error {
	if directed {
		return inv.fail(kernels.NewError(inv.alg).
			Detail("not implemented for directed graphs").
			Cause(kernels.ErrUnsupportedConfig).Err())
	}
	return nil
}

// requireDirected rejects algorithms whose semantics need edge direction.
func (inv *invocation) requireDirected(directed bool) error {
	if !directed {
		return inv.fail(kernels.NewError(inv.alg).
			Detail("not implemented for undirected graphs").
			Cause(kernels.ErrUnsupportedConfig).Err())
	}
	return nil
}
