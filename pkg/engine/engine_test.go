package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/kernels"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/metrics"
)

func newTestEngine(t *testing.T, src graph.Source, mutate ...func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	e, err := New(src, cfg,
		WithLogger(logging.NewNopLogger()),
		WithMetrics(metrics.NewRegistry()))
	require.NoError(t, err)
	return e
}

// triangleWithTail is the undirected graph a-b-c closed into a triangle,
// plus the pendant edge c-d.
func triangleWithTail() *graph.Graph {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("a", "c", nil)
	g.AddEdge("c", "d", nil)
	return g
}

func directedCycle() *graph.Graph {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("c", "a", nil)
	return g
}

func TestNewRejectsNilSource(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	require.Error(t, err)
	assert.True(t, kernels.IsInvalidGraph(err))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Damping = 2
	_, err := New(graph.NewGraph(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Damping")
}

func TestPageRankCycleIsUniform(t *testing.T) {
	e := newTestEngine(t, directedCycle())

	ranks, err := e.PageRank()
	require.NoError(t, err)
	require.Len(t, ranks, 3)
	for node, r := range ranks {
		assert.InDelta(t, 1.0/3, r, 1e-9, "rank of %s", node)
	}
}

func TestHITSStar(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("hub", "x", nil)
	g.AddEdge("hub", "y", nil)
	g.AddEdge("hub", "z", nil)
	e := newTestEngine(t, g)

	hubs, auths, err := e.HITS()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hubs["hub"], 1e-9)
	assert.InDelta(t, 0.0, hubs["x"], 1e-9)
	for _, leaf := range []string{"x", "y", "z"} {
		assert.InDelta(t, 1.0/3, auths[leaf], 1e-9, "authority of %s", leaf)
	}
}

func TestHITSBudgetExhaustionIsAnError(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddEdge("c", "a", nil)
	g.AddEdge("a", "c", nil)
	e := newTestEngine(t, g, func(c *Config) {
		c.MaxIterations = 1
		c.Tolerance = 1e-15
	})

	_, _, err := e.HITS()
	require.Error(t, err)
	assert.True(t, kernels.IsConvergence(err), "want convergence error, got %v", err)
}

func TestShortestPathLength(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	g.AddNode("island")
	e := newTestEngine(t, g)

	dist, err := e.SingleSourceShortestPathLength("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, dist)
	assert.NotContains(t, dist, "island")
}

func TestBellmanFordPathLength(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddWeightedEdge("a", "b", 3)
	g.AddWeightedEdge("a", "c", 1)
	g.AddWeightedEdge("c", "b", 1)
	e := newTestEngine(t, g)

	dist, err := e.SingleSourceBellmanFordPathLength("a")
	require.NoError(t, err)
	assert.InDelta(t, 0, dist["a"], 1e-9)
	assert.InDelta(t, 2, dist["b"], 1e-9, "path a->c->b beats the direct edge")
	assert.InDelta(t, 1, dist["c"], 1e-9)
}

func TestBellmanFordNegativeCycle(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddWeightedEdge("a", "b", 1)
	g.AddWeightedEdge("b", "a", -2)
	e := newTestEngine(t, g)

	_, err := e.SingleSourceBellmanFordPathLength("a")
	require.Error(t, err)
	assert.True(t, kernels.IsConvergence(err))
}

func TestDescendantsExcludesSource(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	desc, err := e.Descendants("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true, "c": true}, desc)

	sink, err := e.Descendants("c")
	require.NoError(t, err)
	assert.Empty(t, sink)
}

func TestDescendantsOnCycleStillExcludesSource(t *testing.T) {
	e := newTestEngine(t, directedCycle())

	desc, err := e.Descendants("a")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true, "c": true}, desc)
}

func TestUnknownNodeLabel(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	_, err := e.SingleSourceShortestPathLength("nope")
	require.Error(t, err)
	assert.True(t, kernels.IsInvalidGraph(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestTriangles(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	tri, err := e.Triangles()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 0}, tri)
}

func TestTrianglesRequireUndirected(t *testing.T) {
	e := newTestEngine(t, directedCycle())

	_, err := e.Triangles()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))
}

func TestClustering(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	c, err := e.Clustering()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c["a"], 1e-9)
	assert.InDelta(t, 1.0, c["b"], 1e-9)
	assert.InDelta(t, 1.0/3, c["c"], 1e-9)
	assert.InDelta(t, 0.0, c["d"], 1e-9, "degree-one node scores zero")
}

func TestClusteringDirectedDispatch(t *testing.T) {
	e := newTestEngine(t, directedCycle())

	c, err := e.Clustering()
	require.NoError(t, err)
	for node, v := range c {
		assert.InDelta(t, 0.5, v, 1e-9, "clustering of %s", node)
	}
}

func TestTransitivity(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	tr, err := e.Transitivity()
	require.NoError(t, err)
	assert.InDelta(t, 0.6, tr, 1e-9)
}

func TestAverageClustering(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	avg, err := e.AverageClustering()
	require.NoError(t, err)
	assert.InDelta(t, 7.0/12, avg, 1e-9)
}

func TestAverageClusteringEmptyGraph(t *testing.T) {
	e := newTestEngine(t, graph.NewGraph())

	_, err := e.AverageClustering()
	require.Error(t, err)
	assert.True(t, kernels.IsInvalidGraph(err))
}

func TestConnectedComponents(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("c", "d", nil)
	e := newTestEngine(t, g)

	comps, err := e.ConnectedComponents()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, comps)

	n, err := e.NumberConnectedComponents()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestConnectedComponentsRequireUndirected(t *testing.T) {
	e := newTestEngine(t, directedCycle())

	_, err := e.ConnectedComponents()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))

	_, err = e.NumberConnectedComponents()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))
}

func TestWeaklyAndStronglyConnectedComponents(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "a", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	weak, err := e.WeaklyConnectedComponents()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, weak)

	strong, err := e.StronglyConnectedComponents()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, strong)
}

func TestDirectedComponentsRequireDirected(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	_, err := e.WeaklyConnectedComponents()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))

	_, err = e.StronglyConnectedComponents()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))
}

func TestDegreeCentralityUndirected(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	d, err := e.DegreeCentrality()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 1, "c": 0.5}, d)
}

func TestDegreeCentralityDirectedUsesTotalDegree(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	d, err := e.DegreeCentrality()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0.5, "b": 1, "c": 0.5}, d)
}

func TestDegreeCentralityRawScores(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	off := false
	e := newTestEngine(t, g, func(c *Config) { c.Normalized = &off })

	d, err := e.DegreeCentrality()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "b": 2, "c": 1}, d)
}

func TestInOutDegreeCentrality(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("a", "c", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	in, err := e.InDegreeCentrality()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0, "b": 0.5, "c": 1}, in)

	out, err := e.OutDegreeCentrality()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "b": 0.5, "c": 0}, out)
}

func TestDirectionalDegreeRequiresDirected(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	_, err := e.InDegreeCentrality()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))

	_, err = e.OutDegreeCentrality()
	require.Error(t, err)
	assert.True(t, kernels.IsUnsupportedConfig(err))
}

func TestBetweennessCentrality(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	g.AddEdge("b", "c", nil)
	e := newTestEngine(t, g)

	bc, err := e.BetweennessCentrality()
	require.NoError(t, err)
	assert.InDelta(t, 0, bc["a"], 1e-9)
	assert.InDelta(t, 1, bc["b"], 1e-9)
	assert.InDelta(t, 0, bc["c"], 1e-9)
}

func TestIsDominatingSet(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("center", "l1", nil)
	g.AddEdge("center", "l2", nil)
	g.AddEdge("center", "l3", nil)
	e := newTestEngine(t, g)

	ok, err := e.IsDominatingSet([]string{"center"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.IsDominatingSet([]string{"l1"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.IsDominatingSet([]string{"ghost"})
	require.Error(t, err)
	assert.True(t, kernels.IsInvalidGraph(err))
}

func TestSummary(t *testing.T) {
	e := newTestEngine(t, triangleWithTail())

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, Summary{Nodes: 4, Entries: 8, Directed: false}, sum)
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

func TestMatrixCacheReusesBuild(t *testing.T) {
	src := &countingSource{Graph: directedCycle()}
	e := newTestEngine(t, src)

	_, err := e.PageRank()
	require.NoError(t, err)
	_, _, err = e.HITS()
	require.NoError(t, err)
	assert.Equal(t, 1, src.builds)
}

func TestMatrixCacheDisabled(t *testing.T) {
	src := &countingSource{Graph: directedCycle()}
	e := newTestEngine(t, src, func(c *Config) { c.CacheMatrices = false })

	_, err := e.PageRank()
	require.NoError(t, err)
	_, err = e.PageRank()
	require.NoError(t, err)
	assert.Equal(t, 2, src.builds)
}

func TestInvalidateRebuildsFromSource(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("a", "b", nil)
	e := newTestEngine(t, g)

	sum, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Nodes)

	g.AddEdge("b", "c", nil)
	sum, err = e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Nodes, "cached matrix ignores source changes")

	e.Invalidate()
	sum, err = e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Nodes)
}

func TestDuplicateEdgePolicyFlowsThrough(t *testing.T) {
	g := graph.NewDiGraph()
	g.AddWeightedEdge("a", "b", 1)
	g.AddWeightedEdge("a", "b", 2)

	e := newTestEngine(t, g)
	_, err := e.Summary()
	require.Error(t, err, "reject policy refuses duplicate edges")

	e = newTestEngine(t, g, func(c *Config) { c.OnDuplicate = "sum" })
	dist, err := e.SingleSourceBellmanFordPathLength("a")
	require.NoError(t, err)
	assert.InDelta(t, 3, dist["b"], 1e-9, "summed duplicate weights")
}
