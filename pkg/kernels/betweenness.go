package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// BetweennessOptions configures shortest-path betweenness accumulation.
type BetweennessOptions struct {
	// Normalized divides by the number of ordered node pairs (n−1)(n−2).
	Normalized bool
	// Directed controls rescaling only; undirected scores are halved
	// because each path is counted from both endpoints.
	Directed bool
	// Sources restricts accumulation to these source nodes. Empty means
	// all nodes. Scores from a subset are extrapolated by n/len(Sources)
	// whenever a rescale factor applies.
	Sources []int
}

// DefaultBetweennessOptions returns normalized undirected betweenness
// over all sources.
func DefaultBetweennessOptions() BetweennessOptions {
	return BetweennessOptions{Normalized: true}
}

// sigmaState carries one breadth-first sweep: per-level path-count
// frontiers plus their running union.
type sigmaState struct {
	frontiers []*sparse.Vector
	paths     *sparse.Vector
}

// Betweenness computes shortest-path betweenness centrality over the
// unweighted structure of A. Each source contributes one breadth-first
// sweep counting shortest paths and one backward sweep accumulating pair
// dependencies along the recorded levels.
func Betweenness(A *sparse.Matrix, opts BetweennessOptions) (*sparse.Vector, error) {
	n := A.Rows()
	sources := opts.Sources
	if len(sources) == 0 {
		sources = make([]int, n)
		for i := range sources {
			sources[i] = i
		}
	}
	for _, s := range sources {
		if s < 0 || s >= n {
			return nil, sourceOutOfRange("betweenness", s, n)
		}
	}

	total := sparse.NewVector(n)
	for _, s := range sources {
		frontiers, err := countPaths(A, s)
		if err != nil {
			return nil, err
		}
		total = total.EWiseAdd(accumulateDependencies(A, frontiers, s), semiring.Plus)
	}
	return rescaleBetweenness(total, n, len(sources), opts), nil
}

// countPaths expands breadth-first from s, returning the path-count
// vector of every level. frontiers[d][v] is the number of shortest
// s→v paths for nodes at distance d.
func countPaths(A *sparse.Matrix, s int) ([]*sparse.Vector, error) {
	n := A.Rows()
	seed := sparse.VectorOf(n, map[int]float64{s: 1})
	initial := sigmaState{frontiers: []*sparse.Vector{seed}, paths: seed}

	step := func(st sigmaState) (sigmaState, error) {
		next := sparse.VxM(st.frontiers[len(st.frontiers)-1], A, semiring.PlusFirst, st.paths, true)
		if next.Nvals() == 0 {
			return st, nil
		}
		return sigmaState{
			frontiers: append(st.frontiers, next),
			paths:     st.paths.EWiseAdd(next, semiring.Plus),
		}, nil
	}
	stalled := func(prev, next sigmaState) bool {
		return len(next.frontiers) == len(prev.frontiers)
	}

	out, err := fixpoint.Run(initial, step, stalled, n)
	if err != nil {
		return nil, err
	}
	return out.State.frontiers, nil
}

// accumulateDependencies walks the levels deepest-first, pushing each
// node's dependency onto its predecessors. The source's own entry is
// dropped; a node is never on a path between itself and another node.
func accumulateDependencies(A *sparse.Matrix, frontiers []*sparse.Vector, s int) *sparse.Vector {
	delta := sparse.NewVector(A.Rows())
	for d := len(frontiers) - 1; d >= 1; d-- {
		level := frontiers[d]
		ones := level.Apply(func(float64) float64 { return 1 })
		// (1 + delta) / sigma on the level's support.
		credit := ones.EWiseAdd(delta.EWiseMult(ones, semiring.First), semiring.Plus).
			EWiseMult(level, func(num, sigma float64) float64 { return num / sigma })
		pulled := sparse.MxV(A, credit, semiring.PlusFirst, frontiers[d-1], false)
		delta = delta.EWiseAdd(frontiers[d-1].EWiseMult(pulled, semiring.Times), semiring.Plus)
	}
	delta.Remove(s)
	return delta
}

func rescaleBetweenness(b *sparse.Vector, n, k int, opts BetweennessOptions) *sparse.Vector {
	scale := 0.0
	switch {
	case opts.Normalized && n > 2:
		scale = 1 / float64((n-1)*(n-2))
	case !opts.Normalized && !opts.Directed:
		scale = 0.5
	default:
		return b
	}
	if k < n {
		scale *= float64(n) / float64(k)
	}
	return b.Apply(func(x float64) float64 { return x * scale })
}
