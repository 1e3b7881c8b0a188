package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// Triangle kernels require a structurally symmetric matrix; the engine
// rejects directed graphs before they get here. Self-loops never count:
// the strict triangular extraction drops the diagonal.

// TriangleCounts returns the number of triangles through each node. Nodes
// in no triangle are structurally absent and map to 0.
//
// The count splits across the strict lower and upper triangles L and U so
// each wedge closure is found exactly once: closures recorded in
// C = (L·Lᵀ)⟨L⟩ credit a node once via its row and once via its column,
// and (U·Lᵀ)⟨U⟩ credits the apex.
func TriangleCounts(A *sparse.Matrix) *sparse.Vector {
	L := A.Tril(-1)
	U := A.Triu(1)

	C := sparse.MxMT(L, L, semiring.PlusPair, L)
	D := sparse.MxMT(U, L, semiring.PlusPair, U)

	return C.ReduceRows(semiring.PlusMonoid).
		EWiseAdd(C.ReduceCols(semiring.PlusMonoid), semiring.Plus).
		EWiseAdd(D.ReduceRows(semiring.PlusMonoid), semiring.Plus)
}

// TotalTriangles returns the number of distinct triangles in the graph.
// Each triangle contributes exactly one entry to (L·Uᵀ)⟨L⟩.
func TotalTriangles(A *sparse.Matrix) float64 {
	L := A.Tril(-1)
	U := A.Triu(1)
	return sparse.MxMT(L, U, semiring.PlusPair, L).Reduce(semiring.PlusMonoid)
}

// NodeTriangles returns the number of triangles through a single node
// without computing the full per-node vector: the neighborhood row is
// intersected against the strict lower triangle.
func NodeTriangles(A *sparse.Matrix, v int) (float64, error) {
	n := A.Rows()
	if v < 0 || v >= n {
		return 0, sourceOutOfRange("triangles", v, n)
	}

	r := A.ExtractRow(v)
	r.Remove(v) // ignore a self-loop
	L := A.Tril(-1)

	wedges := sparse.MxV(L, r, semiring.PlusPair, r, false)
	return wedges.Reduce(semiring.PlusMonoid), nil
}
