package sparse

import "github.com/dd0wney/cluso-semigraph/pkg/semiring"

// Matrix is an immutable sparse matrix in compressed row form. Each row
// stores ascending column indices with no duplicate positions. A Matrix is
// safe for concurrent use once built.
type Matrix struct {
	nrows, ncols int
	rowPtr       []int
	colIdx       []int
	val          []float64
}

// FromTriples builds a matrix from coordinate triples. Triples must be
// sorted row-major (by row, then by column) with no duplicate positions;
// violations panic. Callers own canonicalization: the adjacency builder
// resolves duplicate edges before it gets here.
func FromTriples(nrows, ncols int, rows, cols []int, vals []float64) *Matrix {
	if nrows < 0 || ncols < 0 {
		panic("sparse: negative matrix dimension")
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		panic("sparse: triple slices differ in length")
	}
	m := &Matrix{
		nrows:  nrows,
		ncols:  ncols,
		rowPtr: make([]int, nrows+1),
		colIdx: make([]int, len(cols)),
		val:    make([]float64, len(vals)),
	}
	prev := -1
	prevCol := -1
	for p, r := range rows {
		c := cols[p]
		if r < 0 || r >= nrows || c < 0 || c >= ncols {
			panic("sparse: triple index out of range")
		}
		if r < prev || (r == prev && c <= prevCol) {
			panic("sparse: triples not sorted row-major or duplicate position")
		}
		if r != prev {
			for q := prev + 1; q <= r; q++ {
				m.rowPtr[q] = p
			}
			prev = r
		}
		prevCol = c
		m.colIdx[p] = c
		m.val[p] = vals[p]
	}
	for q := prev + 1; q <= nrows; q++ {
		m.rowPtr[q] = len(rows)
	}
	return m
}

// Identity returns the n×n structural identity matrix with unit values.
func Identity(n int) *Matrix {
	if n < 0 {
		panic("sparse: negative matrix dimension")
	}
	m := &Matrix{
		nrows:  n,
		ncols:  n,
		rowPtr: make([]int, n+1),
		colIdx: make([]int, n),
		val:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		m.rowPtr[i+1] = i + 1
		m.colIdx[i] = i
		m.val[i] = 1
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.nrows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.ncols }

// Nvals returns the number of stored entries.
func (m *Matrix) Nvals() int { return len(m.colIdx) }

// row returns the column indices and values of row i as shared read-only
// subslices.
func (m *Matrix) row(i int) ([]int, []float64) {
	lo, hi := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIdx[lo:hi], m.val[lo:hi]
}

// Get returns the entry at (i, j) and whether it is present.
func (m *Matrix) Get(i, j int) (float64, bool) {
	if i < 0 || i >= m.nrows || j < 0 || j >= m.ncols {
		panic("sparse: matrix index out of range")
	}
	cols, vals := m.row(i)
	lo, hi := 0, len(cols)
	for lo < hi {
		mid := (lo + hi) / 2
		if cols[mid] < j {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(cols) && cols[lo] == j {
		return vals[lo], true
	}
	return 0, false
}

// ExtractRow returns row i as an independent sparse vector of length Cols.
func (m *Matrix) ExtractRow(i int) *Vector {
	if i < 0 || i >= m.nrows {
		panic("sparse: matrix index out of range")
	}
	cols, vals := m.row(i)
	v := &Vector{n: m.ncols, idx: make([]int, len(cols)), val: make([]float64, len(vals))}
	copy(v.idx, cols)
	copy(v.val, vals)
	return v
}

// Transpose returns a new matrix with rows and columns exchanged, built by
// counting sort so entry order stays canonical.
func (m *Matrix) Transpose() *Matrix {
	t := &Matrix{
		nrows:  m.ncols,
		ncols:  m.nrows,
		rowPtr: make([]int, m.ncols+1),
		colIdx: make([]int, len(m.colIdx)),
		val:    make([]float64, len(m.val)),
	}
	for _, j := range m.colIdx {
		t.rowPtr[j+1]++
	}
	for j := 0; j < m.ncols; j++ {
		t.rowPtr[j+1] += t.rowPtr[j]
	}
	next := make([]int, m.ncols)
	copy(next, t.rowPtr[:m.ncols])
	for i := 0; i < m.nrows; i++ {
		cols, vals := m.row(i)
		for p, j := range cols {
			q := next[j]
			next[j]++
			t.colIdx[q] = i
			t.val[q] = vals[p]
		}
	}
	return t
}

// selectEntries returns a new matrix keeping entries for which keep is true.
func (m *Matrix) selectEntries(keep func(i, j int) bool) *Matrix {
	out := &Matrix{nrows: m.nrows, ncols: m.ncols, rowPtr: make([]int, m.nrows+1)}
	for i := 0; i < m.nrows; i++ {
		cols, vals := m.row(i)
		for p, j := range cols {
			if keep(i, j) {
				out.colIdx = append(out.colIdx, j)
				out.val = append(out.val, vals[p])
			}
		}
		out.rowPtr[i+1] = len(out.colIdx)
	}
	return out
}

// Tril returns the entries on or below the k-th diagonal (j-i <= k).
func (m *Matrix) Tril(k int) *Matrix {
	return m.selectEntries(func(i, j int) bool { return j-i <= k })
}

// Triu returns the entries on or above the k-th diagonal (j-i >= k).
func (m *Matrix) Triu(k int) *Matrix {
	return m.selectEntries(func(i, j int) bool { return j-i >= k })
}

// Offdiag returns the matrix with its diagonal removed.
func (m *Matrix) Offdiag() *Matrix {
	return m.selectEntries(func(i, j int) bool { return i != j })
}

// EWiseMult combines two matrices over the intersection of their
// structures.
func (m *Matrix) EWiseMult(b *Matrix, op semiring.BinaryOp) *Matrix {
	if m.nrows != b.nrows || m.ncols != b.ncols {
		panic("sparse: dimension mismatch")
	}
	out := &Matrix{nrows: m.nrows, ncols: m.ncols, rowPtr: make([]int, m.nrows+1)}
	for i := 0; i < m.nrows; i++ {
		ac, av := m.row(i)
		bc, bv := b.row(i)
		p, q := 0, 0
		for p < len(ac) && q < len(bc) {
			switch {
			case ac[p] < bc[q]:
				p++
			case ac[p] > bc[q]:
				q++
			default:
				out.colIdx = append(out.colIdx, ac[p])
				out.val = append(out.val, op(av[p], bv[q]))
				p++
				q++
			}
		}
		out.rowPtr[i+1] = len(out.colIdx)
	}
	return out
}

// EWiseAdd merges two matrices over the union of their structures. Where
// both entries are present they are combined with op; a lone entry passes
// through unchanged.
func (m *Matrix) EWiseAdd(b *Matrix, op semiring.BinaryOp) *Matrix {
	if m.nrows != b.nrows || m.ncols != b.ncols {
		panic("sparse: dimension mismatch")
	}
	out := &Matrix{nrows: m.nrows, ncols: m.ncols, rowPtr: make([]int, m.nrows+1)}
	for i := 0; i < m.nrows; i++ {
		ac, av := m.row(i)
		bc, bv := b.row(i)
		p, q := 0, 0
		for p < len(ac) && q < len(bc) {
			switch {
			case ac[p] < bc[q]:
				out.colIdx = append(out.colIdx, ac[p])
				out.val = append(out.val, av[p])
				p++
			case ac[p] > bc[q]:
				out.colIdx = append(out.colIdx, bc[q])
				out.val = append(out.val, bv[q])
				q++
			default:
				out.colIdx = append(out.colIdx, ac[p])
				out.val = append(out.val, op(av[p], bv[q]))
				p++
				q++
			}
		}
		for ; p < len(ac); p++ {
			out.colIdx = append(out.colIdx, ac[p])
			out.val = append(out.val, av[p])
		}
		for ; q < len(bc); q++ {
			out.colIdx = append(out.colIdx, bc[q])
			out.val = append(out.val, bv[q])
		}
		out.rowPtr[i+1] = len(out.colIdx)
	}
	return out
}

// ReduceRows folds each row's values through the monoid. The result holds
// an entry only for rows with at least one stored value.
func (m *Matrix) ReduceRows(mon semiring.Monoid) *Vector {
	out := NewVector(m.nrows)
	for i := 0; i < m.nrows; i++ {
		_, vals := m.row(i)
		if len(vals) == 0 {
			continue
		}
		acc := vals[0]
		for _, x := range vals[1:] {
			acc = mon.Op(acc, x)
		}
		out.push(i, acc)
	}
	return out
}

// ReduceCols folds each column's values through the monoid. Rows are
// visited in ascending order, so Any-style monoids keep the lowest row's
// value.
func (m *Matrix) ReduceCols(mon semiring.Monoid) *Vector {
	acc := make([]float64, m.ncols)
	seen := make([]bool, m.ncols)
	for p, j := range m.colIdx {
		if !seen[j] {
			acc[j] = m.val[p]
			seen[j] = true
			continue
		}
		acc[j] = mon.Op(acc[j], m.val[p])
	}
	out := NewVector(m.ncols)
	for j := 0; j < m.ncols; j++ {
		if seen[j] {
			out.push(j, acc[j])
		}
	}
	return out
}

// Reduce folds every stored value through the monoid. An empty matrix
// reduces to the monoid identity.
func (m *Matrix) Reduce(mon semiring.Monoid) float64 {
	if len(m.val) == 0 {
		return mon.Identity
	}
	acc := m.val[0]
	for _, x := range m.val[1:] {
		acc = mon.Op(acc, x)
	}
	return acc
}

// RowDegrees returns the structural entry count of each row, with entries
// only for non-empty rows.
func (m *Matrix) RowDegrees() *Vector {
	out := NewVector(m.nrows)
	for i := 0; i < m.nrows; i++ {
		if d := m.rowPtr[i+1] - m.rowPtr[i]; d > 0 {
			out.push(i, float64(d))
		}
	}
	return out
}

// ColDegrees returns the structural entry count of each column, with
// entries only for non-empty columns.
func (m *Matrix) ColDegrees() *Vector {
	counts := make([]int, m.ncols)
	for _, j := range m.colIdx {
		counts[j]++
	}
	out := NewVector(m.ncols)
	for j, d := range counts {
		if d > 0 {
			out.push(j, float64(d))
		}
	}
	return out
}

// Equal reports whether two matrices have identical dimensions, structure,
// and values. Float comparison is exact.
func (m *Matrix) Equal(b *Matrix) bool {
	if m.nrows != b.nrows || m.ncols != b.ncols || len(m.colIdx) != len(b.colIdx) {
		return false
	}
	for i := 0; i <= m.nrows; i++ {
		if m.rowPtr[i] != b.rowPtr[i] {
			return false
		}
	}
	for p := range m.colIdx {
		if m.colIdx[p] != b.colIdx[p] || m.val[p] != b.val[p] {
			return false
		}
	}
	return true
}

// IsStructurallySymmetric reports whether entry (i, j) is present exactly
// when (j, i) is. Values are not compared.
func (m *Matrix) IsStructurallySymmetric() bool {
	if m.nrows != m.ncols {
		return false
	}
	t := m.Transpose()
	if len(t.colIdx) != len(m.colIdx) {
		return false
	}
	for i := 0; i <= m.nrows; i++ {
		if t.rowPtr[i] != m.rowPtr[i] {
			return false
		}
	}
	for p := range m.colIdx {
		if t.colIdx[p] != m.colIdx[p] {
			return false
		}
	}
	return true
}
