package sparse

import (
	"sort"

	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
)

// maskAllows reports whether position i may appear in a masked result.
// Masks are structural: stored values are ignored.
func maskAllows(mask *Vector, complement bool, i int) bool {
	if mask == nil {
		return true
	}
	return mask.Has(i) != complement
}

// VxM computes w = v ⊗ A over the semiring s:
//
//	w[j] = fold over i of s.Mul(v[i], A[i,j])
//
// for every i where both v[i] and A[i,j] are present. The fold visits
// contributions in ascending i, so Any-style monoids keep the value from
// the lowest source index. A non-nil mask restricts the output structure
// to positions present in mask, or absent from it when complement is true.
func VxM(v *Vector, A *Matrix, s semiring.Semiring, mask *Vector, complement bool) *Vector {
	if v.n != A.nrows {
		panic("sparse: dimension mismatch")
	}
	if mask != nil && mask.n != A.ncols {
		panic("sparse: dimension mismatch")
	}
	ws := getWorkspace(A.ncols)
	defer ws.release()

	for p, i := range v.idx {
		ui := v.val[p]
		cols, vals := A.row(i)
		for q, j := range cols {
			ws.hit(j, s.Mul(ui, vals[q]), s.Add.Op)
		}
	}

	sort.Ints(ws.touched)
	out := NewVector(A.ncols)
	for _, j := range ws.touched {
		if maskAllows(mask, complement, j) {
			out.push(j, ws.acc[j])
		}
	}
	return out
}

// MxV computes w = A ⊗ v over the semiring s:
//
//	w[i] = fold over j of s.Mul(v[j], A[i,j])
//
// As in VxM, the multiplicative operator receives the vector entry first.
// With A holding edges i→j, MxV walks edges backwards: w gets entries at
// the predecessors of v's support. The mask restricts output rows.
func MxV(A *Matrix, v *Vector, s semiring.Semiring, mask *Vector, complement bool) *Vector {
	if v.n != A.ncols {
		panic("sparse: dimension mismatch")
	}
	if mask != nil && mask.n != A.nrows {
		panic("sparse: dimension mismatch")
	}
	out := NewVector(A.nrows)
	for i := 0; i < A.nrows; i++ {
		if !maskAllows(mask, complement, i) {
			continue
		}
		cols, vals := A.row(i)
		p, q := 0, 0
		var acc float64
		seen := false
		for p < len(cols) && q < len(v.idx) {
			switch {
			case cols[p] < v.idx[q]:
				p++
			case cols[p] > v.idx[q]:
				q++
			default:
				x := s.Mul(v.val[q], vals[p])
				if !seen {
					acc = x
					seen = true
				} else {
					acc = s.Add.Op(acc, x)
				}
				p++
				q++
			}
		}
		if seen {
			out.push(i, acc)
		}
	}
	return out
}

// MxMT computes C = A ⊗ Bᵀ over the semiring s, restricted to the
// structure of mask: a dot product of A's row i with B's row j is computed
// only where mask holds an entry at (i, j), and an output entry is stored
// only when the dot product has at least one term. The multiplicative
// operator receives A's entry first.
//
// An unmasked matrix-matrix multiply is deliberately not provided; every
// kernel use masks the product by a known structure.
func MxMT(A, B *Matrix, s semiring.Semiring, mask *Matrix) *Matrix {
	if A.ncols != B.ncols {
		panic("sparse: dimension mismatch")
	}
	if mask.nrows != A.nrows || mask.ncols != B.nrows {
		panic("sparse: dimension mismatch")
	}
	out := &Matrix{nrows: mask.nrows, ncols: mask.ncols, rowPtr: make([]int, mask.nrows+1)}
	for i := 0; i < mask.nrows; i++ {
		mcols, _ := mask.row(i)
		ac, av := A.row(i)
		for _, j := range mcols {
			bc, bv := B.row(j)
			p, q := 0, 0
			var acc float64
			seen := false
			for p < len(ac) && q < len(bc) {
				switch {
				case ac[p] < bc[q]:
					p++
				case ac[p] > bc[q]:
					q++
				default:
					x := s.Mul(av[p], bv[q])
					if !seen {
						acc = x
						seen = true
					} else {
						acc = s.Add.Op(acc, x)
					}
					p++
					q++
				}
			}
			if seen {
				out.colIdx = append(out.colIdx, j)
				out.val = append(out.val, acc)
			}
		}
		out.rowPtr[i+1] = len(out.colIdx)
	}
	return out
}
