package sparse

import (
	"sort"
	"testing"

	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
)

// mustMatrix builds an n×n matrix from an entry map, handling the
// row-major ordering FromTriples requires.
func mustMatrix(t *testing.T, n int, entries map[[2]int]float64) *Matrix {
	t.Helper()
	keys := make([][2]int, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	rows := make([]int, len(keys))
	cols := make([]int, len(keys))
	vals := make([]float64, len(keys))
	for p, k := range keys {
		rows[p], cols[p], vals[p] = k[0], k[1], entries[k]
	}
	return FromTriples(n, n, rows, cols, vals)
}

func TestFromTriples(t *testing.T) {
	m := mustMatrix(t, 3, map[[2]int]float64{
		{0, 1}: 1.0,
		{0, 2}: 2.0,
		{2, 0}: 3.0,
	})

	if m.Rows() != 3 || m.Cols() != 3 || m.Nvals() != 3 {
		t.Fatalf("shape = %dx%d nvals=%d, want 3x3 nvals=3", m.Rows(), m.Cols(), m.Nvals())
	}
	if got, ok := m.Get(0, 2); !ok || got != 2.0 {
		t.Errorf("Get(0,2) = %v, %v, want 2.0, true", got, ok)
	}
	if _, ok := m.Get(1, 1); ok {
		t.Errorf("Get(1,1) should be absent")
	}
	if _, ok := m.Get(2, 2); ok {
		t.Errorf("Get(2,2) should be absent")
	}
}

func TestFromTriplesRejectsUnsorted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unsorted triples")
		}
	}()
	FromTriples(2, 2, []int{1, 0}, []int{0, 1}, []float64{1, 1})
}

func TestFromTriplesRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate position")
		}
	}()
	FromTriples(2, 2, []int{0, 0}, []int{1, 1}, []float64{1, 2})
}

func TestTranspose(t *testing.T) {
	m := mustMatrix(t, 3, map[[2]int]float64{
		{0, 1}: 1.0,
		{0, 2}: 2.0,
		{2, 0}: 3.0,
	})

	tr := m.Transpose()

	if got, ok := tr.Get(1, 0); !ok || got != 1.0 {
		t.Errorf("T(1,0) = %v, %v, want 1.0, true", got, ok)
	}
	if got, ok := tr.Get(0, 2); !ok || got != 3.0 {
		t.Errorf("T(0,2) = %v, %v, want 3.0, true", got, ok)
	}
	if !tr.Transpose().Equal(m) {
		t.Error("double transpose is not the identity")
	}
}

func TestTriangularExtraction(t *testing.T) {
	m := mustMatrix(t, 3, map[[2]int]float64{
		{0, 0}: 1,
		{0, 2}: 2,
		{1, 0}: 3,
		{2, 1}: 4,
		{2, 2}: 5,
	})

	lower := m.Tril(-1)
	if lower.Nvals() != 2 {
		t.Errorf("Tril(-1) kept %d entries, want 2 (strictly below diagonal)", lower.Nvals())
	}
	upper := m.Triu(1)
	if upper.Nvals() != 1 {
		t.Errorf("Triu(1) kept %d entries, want 1 (strictly above diagonal)", upper.Nvals())
	}
	off := m.Offdiag()
	if off.Nvals() != 3 {
		t.Errorf("Offdiag kept %d entries, want 3", off.Nvals())
	}
	if _, ok := off.Get(0, 0); ok {
		t.Error("Offdiag kept a diagonal entry")
	}
}

func TestReductionsAndDegrees(t *testing.T) {
	m := mustMatrix(t, 3, map[[2]int]float64{
		{0, 1}: 2,
		{0, 2}: 3,
		{2, 1}: 5,
	})

	rows := m.ReduceRows(semiring.PlusMonoid)
	if got, _ := rows.Get(0); got != 5 {
		t.Errorf("row 0 sum = %v, want 5", got)
	}
	if rows.Has(1) {
		t.Error("empty row 1 should be absent from the reduction")
	}

	cols := m.ReduceCols(semiring.PlusMonoid)
	if got, _ := cols.Get(1); got != 7 {
		t.Errorf("col 1 sum = %v, want 7", got)
	}

	if got := m.Reduce(semiring.PlusMonoid); got != 10 {
		t.Errorf("total = %v, want 10", got)
	}

	deg := m.RowDegrees()
	if got, _ := deg.Get(0); got != 2 {
		t.Errorf("row degree 0 = %v, want 2", got)
	}
	cdeg := m.ColDegrees()
	if got, _ := cdeg.Get(1); got != 2 {
		t.Errorf("col degree 1 = %v, want 2", got)
	}
	if cdeg.Has(0) {
		t.Error("empty column 0 should be absent from ColDegrees")
	}
}

func TestMatrixEWise(t *testing.T) {
	a := mustMatrix(t, 2, map[[2]int]float64{{0, 0}: 1, {0, 1}: 2, {1, 0}: 3})
	b := mustMatrix(t, 2, map[[2]int]float64{{0, 1}: 10, {1, 1}: 20})

	inter := a.EWiseMult(b, semiring.Pair)
	if inter.Nvals() != 1 {
		t.Fatalf("intersection nvals = %d, want 1", inter.Nvals())
	}
	if got, _ := inter.Get(0, 1); got != 1 {
		t.Errorf("intersection value = %v, want 1 (Pair)", got)
	}

	union := a.EWiseAdd(b, semiring.Plus)
	if union.Nvals() != 4 {
		t.Fatalf("union nvals = %d, want 4", union.Nvals())
	}
	if got, _ := union.Get(0, 1); got != 12 {
		t.Errorf("union value = %v, want 12", got)
	}
}

func TestStructuralSymmetry(t *testing.T) {
	sym := mustMatrix(t, 3, map[[2]int]float64{
		{0, 1}: 1, {1, 0}: 9,
		{1, 2}: 1, {2, 1}: 1,
	})
	if !sym.IsStructurallySymmetric() {
		t.Error("structurally symmetric matrix reported asymmetric")
	}

	asym := mustMatrix(t, 3, map[[2]int]float64{{0, 1}: 1})
	if asym.IsStructurallySymmetric() {
		t.Error("asymmetric matrix reported symmetric")
	}
}

func TestExtractRow(t *testing.T) {
	m := mustMatrix(t, 3, map[[2]int]float64{{1, 0}: 4, {1, 2}: 5})

	r := m.ExtractRow(1)
	if r.Len() != 3 || r.Nvals() != 2 {
		t.Fatalf("row shape = len %d nvals %d, want 3, 2", r.Len(), r.Nvals())
	}
	r.Set(1, 9)
	if m.Nvals() != 2 {
		t.Error("mutating an extracted row changed the matrix")
	}
}
