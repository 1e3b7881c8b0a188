package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// SSSP computes single-source shortest path distances by Bellman-Ford
// relaxation over the tropical semiring: each round extends every known
// distance across every edge and keeps the minimum. Unreachable nodes are
// structurally absent. Negative edge weights are allowed; negative cycles
// are not.
//
// maxIter caps the relaxation rounds; zero, negative, or anything above
// the matrix dimension n falls back to n. A shortest path uses at most
// n−1 edges, so distances still improving after n rounds mean a negative
// cycle and SSSP returns ErrConvergence.
func SSSP(A *sparse.Matrix, source, maxIter int) (*sparse.Vector, error) {
	n := A.Rows()
	if source < 0 || source >= n {
		return nil, sourceOutOfRange("sssp", source, n)
	}

	budget := maxIter
	if budget <= 0 || budget > n {
		budget = n
	}

	initial := sparse.VectorOf(n, map[int]float64{source: 0})

	step := func(dist *sparse.Vector) (*sparse.Vector, error) {
		relaxed := sparse.VxM(dist, A, semiring.MinPlus, nil, false)
		return dist.EWiseAdd(relaxed, semiring.Min), nil
	}
	stable := func(prev, next *sparse.Vector) bool { return prev.Equal(next) }

	out, err := fixpoint.Run(initial, step, stable, budget)
	if err != nil {
		return nil, err
	}
	if !out.Converged {
		return nil, negativeCycle("sssp", out.Iterations)
	}
	return out.State, nil
}
