package kernels

import (
	"math"
	"sort"
	"testing"

	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

type triple struct {
	row, col int
	val      float64
}

// matrixOf builds a square matrix from triples given in any order.
func matrixOf(t *testing.T, n int, triples []triple) *sparse.Matrix {
	t.Helper()
	sort.Slice(triples, func(a, b int) bool {
		if triples[a].row != triples[b].row {
			return triples[a].row < triples[b].row
		}
		return triples[a].col < triples[b].col
	})
	rows := make([]int, len(triples))
	cols := make([]int, len(triples))
	vals := make([]float64, len(triples))
	for i, tr := range triples {
		rows[i], cols[i], vals[i] = tr.row, tr.col, tr.val
	}
	return sparse.FromTriples(n, n, rows, cols, vals)
}

// digraph builds a unit-weight directed matrix from edges.
func digraph(t *testing.T, n int, edges [][2]int) *sparse.Matrix {
	t.Helper()
	triples := make([]triple, 0, len(edges))
	for _, e := range edges {
		triples = append(triples, triple{e[0], e[1], 1})
	}
	return matrixOf(t, n, triples)
}

// undirected builds a symmetric unit-weight matrix from node pairs.
func undirected(t *testing.T, n int, pairs [][2]int) *sparse.Matrix {
	t.Helper()
	triples := make([]triple, 0, 2*len(pairs))
	for _, e := range pairs {
		triples = append(triples, triple{e[0], e[1], 1})
		if e[0] != e[1] {
			triples = append(triples, triple{e[1], e[0], 1})
		}
	}
	return matrixOf(t, n, triples)
}

// wantEntries fails unless the vector holds exactly the given entries.
func wantEntries(t *testing.T, v *sparse.Vector, want map[int]float64) {
	t.Helper()
	if v.Nvals() != len(want) {
		t.Fatalf("nvals = %d, want %d (got %v, want %v)", v.Nvals(), len(want), entriesOf(v), want)
	}
	for i, x := range want {
		got, ok := v.Get(i)
		if !ok {
			t.Fatalf("entry %d missing, want %v (got %v)", i, x, entriesOf(v))
		}
		if math.Abs(got-x) > 1e-9 {
			t.Fatalf("entry %d = %v, want %v", i, got, x)
		}
	}
}

func entriesOf(v *sparse.Vector) map[int]float64 {
	out := make(map[int]float64, v.Nvals())
	v.Iterate(func(i int, x float64) bool {
		out[i] = x
		return true
	})
	return out
}

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }
