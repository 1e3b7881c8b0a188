package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// indexVector returns a dense vector with each position holding its own
// index, the starting labels for propagation.
func indexVector(n int) *sparse.Vector {
	v := sparse.NewVector(n)
	for i := 0; i < n; i++ {
		v.Set(i, float64(i))
	}
	return v
}

// propagateMin is one label-propagation round: every node takes the
// minimum of its own label and its neighbors' labels.
func propagateMin(labels *sparse.Vector, A *sparse.Matrix) *sparse.Vector {
	nbr := sparse.VxM(labels, A, semiring.MinFirst, nil, false)
	return labels.EWiseAdd(nbr, semiring.Min)
}

// Components labels every node with the lowest index in its connected
// component by min-label propagation to a fixed point. The matrix must be
// structurally symmetric; the engine symmetrizes directed graphs before
// asking for weakly connected components.
//
// A label shrinks every round until the component minimum has spread one
// more hop, so the fixed point arrives within the component diameter and
// the budget of n rounds can never be exhausted first.
func Components(A *sparse.Matrix) (*sparse.Vector, error) {
	n := A.Rows()
	if n == 0 {
		return sparse.NewVector(0), nil
	}

	step := func(labels *sparse.Vector) (*sparse.Vector, error) {
		return propagateMin(labels, A), nil
	}
	stable := func(prev, next *sparse.Vector) bool { return prev.Equal(next) }

	out, err := fixpoint.Run(indexVector(n), step, stable, n)
	if err != nil {
		return nil, err
	}
	return out.State, nil
}
