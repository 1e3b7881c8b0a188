package kernels

import "testing"

func TestTriangleCountsTwoDisjointTriangles(t *testing.T) {
	A := undirected(t, 6, [][2]int{
		{0, 1}, {1, 2}, {0, 2},
		{3, 4}, {4, 5}, {3, 5},
	})

	counts := TriangleCounts(A)
	wantEntries(t, counts, map[int]float64{0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1})

	if total := TotalTriangles(A); total != 2 {
		t.Fatalf("TotalTriangles = %v, want 2", total)
	}
}

func TestTriangleCountsBowtie(t *testing.T) {
	// Two triangles sharing node 2.
	A := undirected(t, 5, [][2]int{
		{0, 1}, {1, 2}, {0, 2},
		{2, 3}, {3, 4}, {2, 4},
	})

	counts := TriangleCounts(A)
	wantEntries(t, counts, map[int]float64{0: 1, 1: 1, 2: 2, 3: 1, 4: 1})

	if total := TotalTriangles(A); total != 2 {
		t.Fatalf("TotalTriangles = %v, want 2", total)
	}
}

func TestTriangleCountsPathHasNone(t *testing.T) {
	A := undirected(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}})

	if counts := TriangleCounts(A); counts.Nvals() != 0 {
		t.Fatalf("path graph has no triangles, got %v", entriesOf(counts))
	}
	if total := TotalTriangles(A); total != 0 {
		t.Fatalf("TotalTriangles = %v, want 0", total)
	}
}

func TestNodeTrianglesCompleteGraph(t *testing.T) {
	// K4: every node sits in C(3,2) = 3 triangles.
	A := undirected(t, 4, [][2]int{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {1, 3}, {2, 3},
	})

	for v := 0; v < 4; v++ {
		got, err := NodeTriangles(A, v)
		if err != nil {
			t.Fatalf("NodeTriangles(%d): %v", v, err)
		}
		if got != 3 {
			t.Fatalf("NodeTriangles(%d) = %v, want 3", v, got)
		}
	}
}

func TestNodeTrianglesAgreesWithBulk(t *testing.T) {
	A := undirected(t, 5, [][2]int{
		{0, 1}, {1, 2}, {0, 2},
		{2, 3}, {3, 4}, {2, 4},
	})

	bulk := TriangleCounts(A)
	for v := 0; v < 5; v++ {
		single, err := NodeTriangles(A, v)
		if err != nil {
			t.Fatalf("NodeTriangles(%d): %v", v, err)
		}
		fromBulk, _ := bulk.Get(v)
		if single != fromBulk {
			t.Fatalf("node %d: single %v, bulk %v", v, single, fromBulk)
		}
	}
}

func TestNodeTrianglesIgnoresSelfLoop(t *testing.T) {
	A := undirected(t, 3, [][2]int{{0, 1}, {1, 2}, {0, 2}, {0, 0}})

	got, err := NodeTriangles(A, 0)
	if err != nil {
		t.Fatalf("NodeTriangles: %v", err)
	}
	if got != 1 {
		t.Fatalf("NodeTriangles(0) = %v, want 1", got)
	}
}

func TestNodeTrianglesBadIndex(t *testing.T) {
	A := undirected(t, 3, [][2]int{{0, 1}})

	if _, err := NodeTriangles(A, 9); !IsInvalidGraph(err) {
		t.Fatalf("got %v, want ErrInvalidGraph", err)
	}
}
