package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// diagCount returns 1 at each node with a self-loop.
func diagCount(A *sparse.Matrix) *sparse.Vector {
	return A.EWiseMult(sparse.Identity(A.Rows()), semiring.Pair).
		ReduceRows(semiring.PlusMonoid)
}

// DegreeCentrality returns per-node degree of a symmetric matrix, scaled
// by 1/(n−1) when normalized. A self-loop counts twice, the undirected
// degree convention. Zero-degree nodes are absent and map to 0; a graph
// with a single node has centrality 1 by convention.
func DegreeCentrality(A *sparse.Matrix, normalized bool) *sparse.Vector {
	deg := A.Offdiag().RowDegrees().
		EWiseAdd(diagCount(A).Apply(func(x float64) float64 { return 2 * x }), semiring.Plus)
	return scaleDegrees(deg, A.Rows(), normalized)
}

// InDegreeCentrality returns per-node in-degree of a directed matrix,
// scaled by 1/(n−1) when normalized. A self-loop counts once.
func InDegreeCentrality(A *sparse.Matrix, normalized bool) *sparse.Vector {
	return scaleDegrees(A.ColDegrees(), A.Rows(), normalized)
}

// OutDegreeCentrality returns per-node out-degree of a directed matrix,
// scaled by 1/(n−1) when normalized. A self-loop counts once.
func OutDegreeCentrality(A *sparse.Matrix, normalized bool) *sparse.Vector {
	return scaleDegrees(A.RowDegrees(), A.Rows(), normalized)
}

// TotalDegreeCentrality returns per-node in-degree plus out-degree of a
// directed matrix, scaled by 1/(n−1) when normalized. A reciprocal pair
// contributes twice and a self-loop counts once in each direction.
func TotalDegreeCentrality(A *sparse.Matrix, normalized bool) *sparse.Vector {
	deg := A.RowDegrees().EWiseAdd(A.ColDegrees(), semiring.Plus)
	return scaleDegrees(deg, A.Rows(), normalized)
}

func scaleDegrees(deg *sparse.Vector, n int, normalized bool) *sparse.Vector {
	if !normalized {
		return deg
	}
	if n <= 1 {
		return sparse.DenseVector(n, 1)
	}
	scale := 1 / float64(n-1)
	return deg.Apply(func(d float64) float64 { return d * scale })
}
