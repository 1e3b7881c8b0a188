package sparse

import (
	"testing"

	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
)

// pathGraph is the weighted digraph 0→1 (w=2), 0→2 (w=5), 1→2 (w=1),
// used across the multiply tests.
func pathGraph(t *testing.T) *Matrix {
	t.Helper()
	return mustMatrix(t, 3, map[[2]int]float64{
		{0, 1}: 2,
		{0, 2}: 5,
		{1, 2}: 1,
	})
}

func TestVxMPlusTimes(t *testing.T) {
	A := pathGraph(t)
	v := VectorOf(3, map[int]float64{0: 1, 1: 10})

	w := VxM(v, A, semiring.PlusTimes, nil, false)

	// w[1] = 1*2, w[2] = 1*5 + 10*1.
	if got, _ := w.Get(1); got != 2 {
		t.Errorf("w[1] = %v, want 2", got)
	}
	if got, _ := w.Get(2); got != 15 {
		t.Errorf("w[2] = %v, want 15", got)
	}
	if w.Has(0) {
		t.Error("w[0] should be absent: node 0 has no in-edges")
	}
}

func TestVxMMinPlusRelaxation(t *testing.T) {
	A := pathGraph(t)
	dist := VectorOf(3, map[int]float64{0: 0, 1: 2})

	relaxed := VxM(dist, A, semiring.MinPlus, nil, false)

	// Through 0→2 the candidate is 5; through 1→2 it is 2+1=3.
	if got, _ := relaxed.Get(2); got != 3 {
		t.Errorf("relaxed[2] = %v, want 3", got)
	}
}

func TestVxMMask(t *testing.T) {
	A := pathGraph(t)
	v := VectorOf(3, map[int]float64{0: 1})
	mask := VectorOf(3, map[int]float64{2: 1})

	masked := VxM(v, A, semiring.PlusTimes, mask, false)
	if masked.Has(1) || !masked.Has(2) {
		t.Errorf("mask kept wrong positions: has(1)=%v has(2)=%v", masked.Has(1), masked.Has(2))
	}

	complemented := VxM(v, A, semiring.PlusTimes, mask, true)
	if !complemented.Has(1) || complemented.Has(2) {
		t.Errorf("complement mask kept wrong positions: has(1)=%v has(2)=%v",
			complemented.Has(1), complemented.Has(2))
	}
}

// The Any monoid must keep the contribution from the lowest source index,
// because VxM folds sources in ascending order.
func TestVxMAnyLowestIndexWins(t *testing.T) {
	A := mustMatrix(t, 3, map[[2]int]float64{
		{0, 2}: 1,
		{1, 2}: 1,
	})
	labels := VectorOf(3, map[int]float64{0: 7, 1: 9})

	w := VxM(labels, A, semiring.Semiring{Add: semiring.AnyMonoid, Mul: semiring.First}, nil, false)

	if got, _ := w.Get(2); got != 7 {
		t.Errorf("w[2] = %v, want 7 (value from source 0)", got)
	}
}

func TestMxVWalksEdgesBackwards(t *testing.T) {
	A := pathGraph(t)
	frontier := VectorOf(3, map[int]float64{2: 1})

	preds := MxV(A, frontier, semiring.AnyPair, nil, false)

	// Nodes 0 and 1 both have edges into node 2.
	if !preds.Has(0) || !preds.Has(1) || preds.Has(2) {
		t.Errorf("preds = %v, want {0, 1}", preds.Indices())
	}
}

func TestMxVMask(t *testing.T) {
	A := pathGraph(t)
	frontier := VectorOf(3, map[int]float64{2: 1})
	visited := VectorOf(3, map[int]float64{0: 1})

	preds := MxV(A, frontier, semiring.AnyPair, visited, true)
	if preds.Has(0) {
		t.Error("complement mask failed to exclude an already-visited row")
	}
	if !preds.Has(1) {
		t.Error("complement mask dropped an unvisited row")
	}
}

// Two triangles sharing no edges: {0,1,2} and {3,4,5}. The masked
// PlusPair product over the strict lower triangle counts one wedge
// closure per triangle.
func TestMxMTCountsTriangles(t *testing.T) {
	entries := map[[2]int]float64{}
	addUndirected := func(u, v int) {
		entries[[2]int{u, v}] = 1
		entries[[2]int{v, u}] = 1
	}
	addUndirected(0, 1)
	addUndirected(0, 2)
	addUndirected(1, 2)
	addUndirected(3, 4)
	addUndirected(3, 5)
	addUndirected(4, 5)
	A := mustMatrix(t, 6, entries)

	L := A.Tril(-1)
	U := A.Triu(1)

	C := MxMT(L, U, semiring.PlusPair, L)
	if got := C.Reduce(semiring.PlusMonoid); got != 2 {
		t.Errorf("total triangles = %v, want 2", got)
	}
}

func TestMxMTRespectsMaskStructure(t *testing.T) {
	A := mustMatrix(t, 2, map[[2]int]float64{
		{0, 0}: 1, {0, 1}: 1,
		{1, 0}: 1, {1, 1}: 1,
	})
	mask := mustMatrix(t, 2, map[[2]int]float64{{0, 1}: 1})

	C := MxMT(A, A, semiring.PlusPair, mask)

	if C.Nvals() != 1 {
		t.Fatalf("nvals = %d, want 1 (mask has one position)", C.Nvals())
	}
	if got, _ := C.Get(0, 1); got != 2 {
		t.Errorf("C[0,1] = %v, want 2", got)
	}
}

func TestVxMEmptyOperands(t *testing.T) {
	A := pathGraph(t)

	if got := VxM(NewVector(3), A, semiring.PlusTimes, nil, false).Nvals(); got != 0 {
		t.Errorf("empty vector times A has %d entries, want 0", got)
	}

	empty := FromTriples(3, 3, nil, nil, nil)
	v := VectorOf(3, map[int]float64{0: 1})
	if got := VxM(v, empty, semiring.PlusTimes, nil, false).Nvals(); got != 0 {
		t.Errorf("v times empty matrix has %d entries, want 0", got)
	}
}
