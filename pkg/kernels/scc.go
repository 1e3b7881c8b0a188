package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// sccState tracks forward-backward peeling: component labels assigned so
// far and the still-unassigned active set.
type sccState struct {
	labels *sparse.Vector
	active *sparse.Vector
}

// StronglyConnected labels every node with the lowest index in its
// strongly connected component. Each round takes the lowest active index
// as pivot; nodes that both reach the pivot and are reached by it, within
// the active set, are exactly its component and are peeled off. The pivot
// always peels itself, so at most n rounds run.
func StronglyConnected(A *sparse.Matrix) (*sparse.Vector, error) {
	n := A.Rows()
	if n == 0 {
		return sparse.NewVector(0), nil
	}

	step := func(st sccState) (sccState, error) {
		pivot := -1
		st.active.Iterate(func(i int, _ float64) bool {
			pivot = i
			return false
		})

		fwd, err := reachWithin(A, pivot, st.active, false)
		if err != nil {
			return st, err
		}
		bwd, err := reachWithin(A, pivot, st.active, true)
		if err != nil {
			return st, err
		}
		component := fwd.EWiseMult(bwd, semiring.Pair)

		labels := st.labels.Clone()
		labels.AssignConstant(component, float64(pivot))
		active := st.active.Select(func(i int, _ float64) bool { return !component.Has(i) })
		return sccState{labels: labels, active: active}, nil
	}
	exhausted := func(_, next sccState) bool { return next.active.Nvals() == 0 }

	initial := sccState{labels: sparse.NewVector(n), active: sparse.DenseVector(n, 1)}
	out, err := fixpoint.Run(initial, step, exhausted, n)
	if err != nil {
		return nil, err
	}
	return out.State.labels, nil
}

// reachState is a plain frontier traversal restricted to a node subset.
type reachState struct {
	visited  *sparse.Vector
	frontier *sparse.Vector
}

// reachWithin returns the set of active nodes reachable from pivot, pivot
// included. With backward set, edges are walked in reverse, which needs no
// transposed matrix: MxV finds the predecessors of the frontier.
func reachWithin(A *sparse.Matrix, pivot int, active *sparse.Vector, backward bool) (*sparse.Vector, error) {
	n := A.Rows()
	seed := sparse.VectorOf(n, map[int]float64{pivot: 1})

	step := func(st reachState) (reachState, error) {
		var next *sparse.Vector
		if backward {
			next = sparse.MxV(A, st.frontier, semiring.AnyPair, st.visited, true)
		} else {
			next = sparse.VxM(st.frontier, A, semiring.AnyPair, st.visited, true)
		}
		next = next.EWiseMult(active, semiring.First)
		return reachState{
			visited:  st.visited.EWiseAdd(next, semiring.First),
			frontier: next,
		}, nil
	}
	emptied := func(_, next reachState) bool { return next.frontier.Nvals() == 0 }

	out, err := fixpoint.Run(reachState{visited: seed.Clone(), frontier: seed}, step, emptied, n)
	if err != nil {
		return nil, err
	}
	return out.State.visited, nil
}
