package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// bfsState carries one level-synchronous expansion: the current frontier,
// the levels assigned so far, and the level counter.
type bfsState struct {
	frontier *sparse.Vector
	levels   *sparse.Vector
	depth    int
}

// BFSLevels runs a level-synchronous breadth-first traversal from source
// over the boolean semiring and returns each reached node's level, source
// included at level 0. Unreached nodes are structurally absent.
//
// maxLevel caps the traversal depth; zero or negative means no cap short
// of the matrix dimension. Hitting the cap is normal termination for a
// traversal, so BFSLevels never reports a convergence failure.
func BFSLevels(A *sparse.Matrix, source, maxLevel int) (*sparse.Vector, error) {
	n := A.Rows()
	if source < 0 || source >= n {
		return nil, sourceOutOfRange("bfs", source, n)
	}

	levels := sparse.NewVector(n)
	levels.Set(source, 0)
	initial := bfsState{
		frontier: sparse.VectorOf(n, map[int]float64{source: 1}),
		levels:   levels,
	}

	budget := maxLevel
	if budget <= 0 || budget > n {
		budget = n
	}

	step := func(st bfsState) (bfsState, error) {
		// Expand the frontier, masking away already-leveled nodes.
		next := sparse.VxM(st.frontier, A, semiring.LorLand, st.levels, true)
		lv := st.levels.Clone()
		lv.AssignConstant(next, float64(st.depth+1))
		return bfsState{frontier: next, levels: lv, depth: st.depth + 1}, nil
	}
	emptied := func(_, next bfsState) bool { return next.frontier.Nvals() == 0 }

	out, err := fixpoint.Run(initial, step, emptied, budget)
	if err != nil {
		return nil, err
	}
	return out.State.levels, nil
}

// Reachable returns the set of nodes with a directed path from source,
// source included, as a structural vector of unit values.
func Reachable(A *sparse.Matrix, source int) (*sparse.Vector, error) {
	levels, err := BFSLevels(A, source, 0)
	if err != nil {
		return nil, err
	}
	return levels.Apply(func(float64) float64 { return 1 }), nil
}
