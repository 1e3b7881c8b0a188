package parallel

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-semigraph/pkg/engine"
	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/kernels"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/metrics"
)

func newBatchBackend(t *testing.T, src graph.Source) engine.Backend {
	t.Helper()
	e, err := engine.New(src, engine.DefaultConfig(),
		engine.WithLogger(logging.NewNopLogger()),
		engine.WithMetrics(metrics.NewRegistry()))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return e
}

func newQuietRunner(t *testing.T, backend engine.Backend, workers int) *BatchRunner {
	t.Helper()
	r, err := NewBatchRunner(backend, workers,
		WithBatchLogger(logging.NewNopLogger()),
		WithBatchMetrics(metrics.NewRegistry()))
	if err != nil {
		t.Fatalf("NewBatchRunner: %v", err)
	}
	return r
}

func batchTriangle() *graph.Graph {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("a", "c", nil)
	return g
}

func TestBatchRunnerRequestOrder(t *testing.T) {
	runner := newQuietRunner(t, newBatchBackend(t, batchTriangle()), 4)
	defer runner.Close()

	jobs := []Job{
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
		{Name: "degree_centrality", Run: func(b engine.Backend) (any, error) { return b.DegreeCentrality() }},
	}

	results := runner.Run(jobs)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, res := range results {
		if res.Name != jobs[i].Name {
			t.Errorf("result %d has name %q, want %q", i, res.Name, jobs[i].Name)
		}
		if res.Err != nil {
			t.Errorf("job %s failed: %v", res.Name, res.Err)
		}
	}

	ranks, ok := results[0].Value.(map[string]float64)
	if !ok {
		t.Fatalf("pagerank value has type %T", results[0].Value)
	}
	if len(ranks) != 3 {
		t.Errorf("expected 3 ranked nodes, got %d", len(ranks))
	}
}

func TestBatchRunnerCollectsErrors(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "a", nil)
	runner := newQuietRunner(t, newBatchBackend(t, g), 2)
	defer runner.Close()

	results := runner.Run([]Job{
		{Name: "triangles", Run: func(b engine.Backend) (any, error) { return b.Triangles() }},
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
	})

	if !kernels.IsUnsupportedConfig(results[0].Err) {
		t.Errorf("expected unsupported-config error from triangles, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("pagerank should have succeeded alongside: %v", results[1].Err)
	}
}

func TestBatchRunnerRecoversPanickingJob(t *testing.T) {
	runner := newQuietRunner(t, newBatchBackend(t, batchTriangle()), 2)
	defer runner.Close()

	results := runner.Run([]Job{
		{Name: "bad", Run: func(engine.Backend) (any, error) { panic("boom") }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
	})

	if results[0].Err == nil || !strings.Contains(results[0].Err.Error(), "panicked") {
		t.Errorf("expected panic error, got %v", results[0].Err)
	}
	if results[1].Err != nil {
		t.Errorf("healthy job failed: %v", results[1].Err)
	}
}

func TestBatchRunnerAfterClose(t *testing.T) {
	runner := newQuietRunner(t, newBatchBackend(t, batchTriangle()), 2)
	runner.Close()

	results := runner.Run([]Job{
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
	})

	for _, res := range results {
		if !errors.Is(res.Err, ErrBatchClosed) {
			t.Errorf("job %s: expected ErrBatchClosed, got %v", res.Name, res.Err)
		}
	}
}

// countingSource counts matrix builds through its Edges calls.
type countingSource struct {
	*graph.Graph
	builds int
}

func (s *countingSource) Edges() []graph.Edge {
	s.builds++
	return s.Graph.Edges()
}

func TestBatchRunnerSharesOneMatrixBuild(t *testing.T) {
	src := &countingSource{Graph: batchTriangle()}
	runner := newQuietRunner(t, newBatchBackend(t, src), 4)
	defer runner.Close()

	job := func(name string) Job {
		return Job{Name: name, Run: func(b engine.Backend) (any, error) { return b.PageRank() }}
	}
	results := runner.Run([]Job{job("p1"), job("p2"), job("p3"), job("p4")})

	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("job %s failed: %v", res.Name, res.Err)
		}
	}
	if src.builds != 1 {
		t.Errorf("expected one shared matrix build, got %d", src.builds)
	}
}

func TestBatchRunnerEmptyJobList(t *testing.T) {
	runner := newQuietRunner(t, newBatchBackend(t, batchTriangle()), 2)
	defer runner.Close()

	if results := runner.Run(nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchRunnerAssignsUniqueJobIDs(t *testing.T) {
	runner := newQuietRunner(t, newBatchBackend(t, batchTriangle()), 2)
	defer runner.Close()

	results := runner.Run([]Job{
		{Name: "t1", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
		{Name: "t2", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
	})

	if results[0].ID == "" || results[1].ID == "" {
		t.Fatal("job results missing IDs")
	}
	if results[0].ID == results[1].ID {
		t.Error("job IDs are not unique")
	}
}

func TestNewBatchRunnerRequiresBackend(t *testing.T) {
	if _, err := NewBatchRunner(nil, 2); err == nil {
		t.Error("expected an error for a nil backend")
	}
}
