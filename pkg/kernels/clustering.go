package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// offdiagDegrees returns per-node degree ignoring self-loops. For a
// symmetric matrix row counts and column counts agree.
func offdiagDegrees(A *sparse.Matrix) *sparse.Vector {
	return A.Offdiag().RowDegrees()
}

// ClusteringCoefficients returns the local clustering coefficient
// 2·t/(d·(d−1)) for every node in at least one triangle. Nodes without
// triangles are structurally absent and map to 0.
func ClusteringCoefficients(A *sparse.Matrix) *sparse.Vector {
	tri := TriangleCounts(A)
	denom := offdiagDegrees(A).Apply(func(d float64) float64 { return d * (d - 1) })
	// A node with a triangle has degree at least 2, so the intersection
	// never divides by zero.
	return tri.EWiseMult(denom, func(t, dd float64) float64 { return 2 * t / dd })
}

// NodeClustering returns the local clustering coefficient of one node.
func NodeClustering(A *sparse.Matrix, v int) (float64, error) {
	tri, err := NodeTriangles(A, v)
	if err != nil {
		return 0, err
	}
	if tri == 0 {
		return 0, nil
	}
	r := A.ExtractRow(v)
	r.Remove(v)
	d := float64(r.Nvals())
	return 2 * tri / (d * (d - 1)), nil
}

// DirectedClusteringCoefficients returns the clustering coefficient of a
// directed graph: all triangle orientations through a node over the
// possible ones, with reciprocal edges discounted in the denominator.
func DirectedClusteringCoefficients(A *sparse.Matrix) *sparse.Vector {
	O := A.Offdiag()
	OT := O.Transpose()

	// The three products cover every orientation of a directed triangle;
	// the first is credited both by row and by column.
	t1 := sparse.MxMT(O, O, semiring.PlusPair, O)
	t2 := sparse.MxMT(OT, O, semiring.PlusPair, O)
	t3 := sparse.MxMT(OT, OT, semiring.PlusPair, O)

	tri := t1.ReduceRows(semiring.PlusMonoid).
		EWiseAdd(t1.ReduceCols(semiring.PlusMonoid), semiring.Plus).
		EWiseAdd(t2.ReduceRows(semiring.PlusMonoid), semiring.Plus).
		EWiseAdd(t3.ReduceCols(semiring.PlusMonoid), semiring.Plus)

	recip := O.EWiseMult(OT, semiring.Pair).ReduceRows(semiring.PlusMonoid)
	total := O.RowDegrees().EWiseAdd(O.ColDegrees(), semiring.Plus)

	denom := total.Apply(func(d float64) float64 { return d * (d - 1) }).
		EWiseAdd(recip.Apply(func(r float64) float64 { return -2 * r }), semiring.Plus)

	return tri.EWiseMult(denom, func(t, dd float64) float64 {
		if dd == 0 {
			return 0
		}
		return t / dd
	})
}

// NodeClusteringDirected returns the directed clustering coefficient of
// one node from its out-row and in-column alone.
func NodeClusteringDirected(A *sparse.Matrix, v int) (float64, error) {
	n := A.Rows()
	if v < 0 || v >= n {
		return 0, sourceOutOfRange("clustering", v, n)
	}

	O := A.Offdiag()
	r := O.ExtractRow(v)
	c := O.Transpose().ExtractRow(v)

	tri := sparse.MxV(O, c, semiring.PlusPair, c, false).Reduce(semiring.PlusMonoid) +
		sparse.MxV(O, c, semiring.PlusPair, r, false).Reduce(semiring.PlusMonoid) +
		sparse.MxV(O, r, semiring.PlusPair, c, false).Reduce(semiring.PlusMonoid) +
		sparse.MxV(O, r, semiring.PlusPair, r, false).Reduce(semiring.PlusMonoid)
	if tri == 0 {
		return 0, nil
	}

	total := float64(c.Nvals() + r.Nvals())
	recip := float64(c.EWiseMult(r, semiring.Pair).Nvals())
	return tri / (total*(total-1) - 2*recip), nil
}

// Transitivity returns the global clustering ratio 3·triangles/triads for
// an undirected graph, or 0 when the graph has no triangles.
func Transitivity(A *sparse.Matrix) float64 {
	numerator := TotalTriangles(A)
	if numerator == 0 {
		return 0
	}
	denom := offdiagDegrees(A).
		Apply(func(d float64) float64 { return d * (d - 1) }).
		Reduce(semiring.PlusMonoid)
	return 6 * numerator / denom
}

// TransitivityDirected returns the global clustering ratio of a directed
// graph using out-degrees.
func TransitivityDirected(A *sparse.Matrix) float64 {
	O := A.Offdiag()
	numerator := sparse.MxMT(O, O, semiring.PlusPair, O).Reduce(semiring.PlusMonoid)
	if numerator == 0 {
		return 0
	}
	denom := O.RowDegrees().
		Apply(func(d float64) float64 { return d * (d - 1) }).
		Reduce(semiring.PlusMonoid)
	return numerator / denom
}

// AverageClustering returns the mean local clustering coefficient. With
// countZeros, nodes without triangles enter the mean as zeros; otherwise
// only nodes with a coefficient are averaged. The matrix must be
// non-empty.
func AverageClustering(A *sparse.Matrix, countZeros bool) float64 {
	c := ClusteringCoefficients(A)
	return averageOf(c, A.Rows(), countZeros)
}

// AverageClusteringDirected is AverageClustering for directed graphs.
func AverageClusteringDirected(A *sparse.Matrix, countZeros bool) float64 {
	c := DirectedClusteringCoefficients(A)
	return averageOf(c, A.Rows(), countZeros)
}

func averageOf(c *sparse.Vector, n int, countZeros bool) float64 {
	total := c.Reduce(semiring.PlusMonoid)
	if countZeros {
		return total / float64(n)
	}
	if c.Nvals() == 0 {
		return 0
	}
	return total / float64(c.Nvals())
}
