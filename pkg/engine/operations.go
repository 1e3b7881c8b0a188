package engine

import (
	"github.com/dd0wney/cluso-semigraph/pkg/kernels"
	"github.com/dd0wney/cluso-semigraph/pkg/results"
)

// PageRank scores every node by the damped random-surfer model. Failing
// to converge within the iteration budget is not an error; the partial
// ranking is returned and the shortfall is logged and counted.
func (e *Engine) PageRank() (map[string]float64, error) {
	inv := e.begin("pagerank")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}

	res, err := kernels.PageRank(built.Matrix, kernels.PageRankOptions{
		DampingFactor: e.cfg.Damping,
		MaxIterations: e.cfg.MaxIterations,
		Tolerance:     e.cfg.Tolerance,
	})
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finishIter(res.Iterations, res.Converged)
	return results.Float64Map(res.Ranks, built.Index, 0), nil
}

// HITS returns hub and authority scores. Unlike PageRank the fixed
// point is the whole answer, so exhausting the budget is an error.
func (e *Engine) HITS() (map[string]float64, map[string]float64, error) {
	inv := e.begin("hits")
	built, err := e.matrices()
	if err != nil {
		return nil, nil, inv.fail(err)
	}

	res, err := kernels.HITS(built.Matrix, kernels.HITSOptions{
		MaxIterations: e.cfg.MaxIterations,
		Tolerance:     e.cfg.Tolerance,
	})
	if err != nil {
		return nil, nil, inv.fail(err)
	}
	if !res.Converged {
		e.metrics.RecordConvergenceFailure(inv.alg)
		return nil, nil, inv.fail(kernels.NewError(inv.alg).
			Detail("no fixed point within %d iterations", res.Iterations).
			Cause(kernels.ErrConvergence).Err())
	}
	inv.finishIter(res.Iterations, true)
	return results.Float64Map(res.Hubs, built.Index, 0),
		results.Float64Map(res.Authorities, built.Index, 0), nil
}

// SingleSourceShortestPathLength returns hop counts from source to every
// reachable node, the source included at 0. Unreachable nodes are absent.
func (e *Engine) SingleSourceShortestPathLength(source string) (map[string]int, error) {
	inv := e.begin("single_source_shortest_path_length")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	src, err := inv.resolve(built.Index, source)
	if err != nil {
		return nil, inv.fail(err)
	}

	levels, err := kernels.BFSLevels(built.Matrix, src, 0)
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.SparseIntMap(levels, built.Index), nil
}

// SingleSourceBellmanFordPathLength returns weighted distances from
// source to every reachable node. Negative edge weights are allowed;
// a negative cycle reachable from the source is an error.
func (e *Engine) SingleSourceBellmanFordPathLength(source string) (map[string]float64, error) {
	inv := e.begin("single_source_bellman_ford_path_length")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	src, err := inv.resolve(built.Index, source)
	if err != nil {
		return nil, inv.fail(err)
	}

	dist, err := kernels.SSSP(built.Matrix, src, 0)
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.SparseFloat64Map(dist, built.Index), nil
}

// Descendants returns the set of nodes reachable from source, the source
// itself excluded.
func (e *Engine) Descendants(source string) (map[string]bool, error) {
	inv := e.begin("descendants")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	src, err := inv.resolve(built.Index, source)
	if err != nil {
		return nil, inv.fail(err)
	}

	reach, err := kernels.Reachable(built.Matrix, src)
	if err != nil {
		return nil, inv.fail(err)
	}
	reach.Remove(src)
	inv.finish()
	return results.Set(reach, built.Index), nil
}

// Triangles counts the triangles through each node of an undirected
// graph. Every node appears in the result, triangle-free ones at 0.
func (e *Engine) Triangles() (map[string]int, error) {
	inv := e.begin("triangles")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireUndirected(built.Directed); err != nil {
		return nil, err
	}

	counts := kernels.TriangleCounts(built.Matrix)
	inv.finish()
	return results.IntMap(counts, built.Index, 0), nil
}

// Clustering returns the clustering coefficient of every node, using the
// directed definition when the source is directed. Nodes without enough
// neighbors score 0.
func (e *Engine) Clustering() (map[string]float64, error) {
	inv := e.begin("clustering")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}

	var coeffs = kernels.ClusteringCoefficients
	if built.Directed {
		coeffs = kernels.DirectedClusteringCoefficients
	}
	c := coeffs(built.Matrix)
	inv.finish()
	return results.Float64Map(c, built.Index, 0), nil
}

// Transitivity returns the global ratio of closed triads to connected
// triads, 0 when the graph has no triads at all.
func (e *Engine) Transitivity() (float64, error) {
	inv := e.begin("transitivity")
	built, err := e.matrices()
	if err != nil {
		return 0, inv.fail(err)
	}

	var t float64
	if built.Directed {
		t = kernels.TransitivityDirected(built.Matrix)
	} else {
		t = kernels.Transitivity(built.Matrix)
	}
	inv.finish()
	return t, nil
}

// AverageClustering returns the mean clustering coefficient over all
// nodes, counting coefficient-less nodes as 0. An empty graph has no
// mean and is rejected.
func (e *Engine) AverageClustering() (float64, error) {
	inv := e.begin("average_clustering")
	built, err := e.matrices()
	if err != nil {
		return 0, inv.fail(err)
	}
	if built.Index.Len() == 0 {
		return 0, inv.fail(kernels.NewError(inv.alg).
			Detail("graph has no nodes").
			Cause(kernels.ErrInvalidGraph).Err())
	}

	var avg float64
	if built.Directed {
		avg = kernels.AverageClusteringDirected(built.Matrix, true)
	} else {
		avg = kernels.AverageClustering(built.Matrix, true)
	}
	inv.finish()
	return avg, nil
}

// ConnectedComponents partitions an undirected graph into components,
// each a slice of labels in index order, ordered by first appearance.
func (e *Engine) ConnectedComponents() ([][]string, error) {
	inv := e.begin("connected_components")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireUndirected(built.Directed); err != nil {
		return nil, err
	}

	labels, err := kernels.Components(built.Matrix)
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.Groups(labels, built.Index), nil
}

// NumberConnectedComponents counts the components of an undirected graph.
func (e *Engine) NumberConnectedComponents() (int, error) {
	inv := e.begin("number_connected_components")
	built, err := e.matrices()
	if err != nil {
		return 0, inv.fail(err)
	}
	if err := inv.requireUndirected(built.Directed); err != nil {
		return 0, err
	}

	labels, err := kernels.Components(built.Matrix)
	if err != nil {
		return 0, inv.fail(err)
	}
	inv.finish()
	return len(results.Groups(labels, built.Index)), nil
}

// WeaklyConnectedComponents partitions a directed graph by connectivity
// with edge direction ignored.
func (e *Engine) WeaklyConnectedComponents() ([][]string, error) {
	inv := e.begin("weakly_connected_components")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireDirected(built.Directed); err != nil {
		return nil, err
	}

	S, index, err := e.symmetrized()
	if err != nil {
		return nil, inv.fail(err)
	}
	labels, err := kernels.Components(S)
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.Groups(labels, index), nil
}

// StronglyConnectedComponents partitions a directed graph into maximal
// sets of mutually reachable nodes.
func (e *Engine) StronglyConnectedComponents() ([][]string, error) {
	inv := e.begin("strongly_connected_components")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireDirected(built.Directed); err != nil {
		return nil, err
	}

	labels, err := kernels.StronglyConnected(built.Matrix)
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.Groups(labels, built.Index), nil
}

// DegreeCentrality scores nodes by degree. Directed sources use total
// degree, in plus out. Scores are divided by n−1 unless the config turns
// normalization off.
func (e *Engine) DegreeCentrality() (map[string]float64, error) {
	inv := e.begin("degree_centrality")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}

	var deg = kernels.DegreeCentrality
	if built.Directed {
		deg = kernels.TotalDegreeCentrality
	}
	d := deg(built.Matrix, e.cfg.normalized())
	inv.finish()
	return results.Float64Map(d, built.Index, 0), nil
}

// InDegreeCentrality scores directed nodes by in-degree.
func (e *Engine) InDegreeCentrality() (map[string]float64, error) {
	inv := e.begin("in_degree_centrality")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireDirected(built.Directed); err != nil {
		return nil, err
	}

	d := kernels.InDegreeCentrality(built.Matrix, e.cfg.normalized())
	inv.finish()
	return results.Float64Map(d, built.Index, 0), nil
}

// OutDegreeCentrality scores directed nodes by out-degree.
func (e *Engine) OutDegreeCentrality() (map[string]float64, error) {
	inv := e.begin("out_degree_centrality")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}
	if err := inv.requireDirected(built.Directed); err != nil {
		return nil, err
	}

	d := kernels.OutDegreeCentrality(built.Matrix, e.cfg.normalized())
	inv.finish()
	return results.Float64Map(d, built.Index, 0), nil
}

// BetweennessCentrality scores nodes by the fraction of shortest paths
// passing through them, treating every edge as length 1.
func (e *Engine) BetweennessCentrality() (map[string]float64, error) {
	inv := e.begin("betweenness_centrality")
	built, err := e.matrices()
	if err != nil {
		return nil, inv.fail(err)
	}

	bc, err := kernels.Betweenness(built.Matrix, kernels.BetweennessOptions{
		Normalized: e.cfg.normalized(),
		Directed:   built.Directed,
	})
	if err != nil {
		return nil, inv.fail(err)
	}
	inv.finish()
	return results.Float64Map(bc, built.Index, 0), nil
}

// IsDominatingSet reports whether every node outside the given set has
// an incoming edge from inside it. Directed sources follow out-edges.
func (e *Engine) IsDominatingSet(nodes []string) (bool, error) {
	inv := e.begin("is_dominating_set")
	built, err := e.matrices()
	if err != nil {
		return false, inv.fail(err)
	}

	ids := make([]int, len(nodes))
	for i, label := range nodes {
		id, err := inv.resolve(built.Index, label)
		if err != nil {
			return false, inv.fail(err)
		}
		ids[i] = id
	}

	ok, err := kernels.IsDominatingSet(built.Matrix, ids)
	if err != nil {
		return false, inv.fail(err)
	}
	inv.finish()
	return ok, nil
}
