// Package sparse provides the sparse matrix and vector operations the graph
// kernels are written against: semiring multiplies with structural masks,
// element-wise union and intersection, reductions, transposition, and
// triangular extraction. Matrices are immutable once built; vectors are
// mutable and owned by a single algorithm invocation.
//
// Presence of an entry is structural information independent of its stored
// value. Contract violations (index out of range, dimension mismatch,
// malformed input triples) are programmer errors and panic; they are never
// reported as runtime errors to callers.
package sparse

import (
	"sort"

	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
)

// Vector is a sparse vector of fixed logical length. Entries are kept in
// ascending index order with no duplicates. The zero value is not usable;
// construct with NewVector, DenseVector, or VectorOf.
type Vector struct {
	n   int
	idx []int
	val []float64
}

// NewVector returns an empty vector of logical length n.
func NewVector(n int) *Vector {
	if n < 0 {
		panic("sparse: negative vector length")
	}
	return &Vector{n: n}
}

// DenseVector returns a vector of length n with every position present and
// set to fill.
func DenseVector(n int, fill float64) *Vector {
	v := &Vector{n: n, idx: make([]int, n), val: make([]float64, n)}
	for i := 0; i < n; i++ {
		v.idx[i] = i
		v.val[i] = fill
	}
	return v
}

// VectorOf returns a vector of length n holding the given entries.
func VectorOf(n int, entries map[int]float64) *Vector {
	v := NewVector(n)
	keys := make([]int, 0, len(entries))
	for i := range entries {
		keys = append(keys, i)
	}
	sort.Ints(keys)
	for _, i := range keys {
		v.checkIndex(i)
		v.idx = append(v.idx, i)
		v.val = append(v.val, entries[i])
	}
	return v
}

func (v *Vector) checkIndex(i int) {
	if i < 0 || i >= v.n {
		panic("sparse: vector index out of range")
	}
}

// search returns the slot of index i and whether it is present.
func (v *Vector) search(i int) (int, bool) {
	p := sort.SearchInts(v.idx, i)
	return p, p < len(v.idx) && v.idx[p] == i
}

// Len returns the logical length of the vector.
func (v *Vector) Len() int { return v.n }

// Nvals returns the number of stored entries.
func (v *Vector) Nvals() int { return len(v.idx) }

// Get returns the entry at index i and whether it is present.
func (v *Vector) Get(i int) (float64, bool) {
	v.checkIndex(i)
	if p, ok := v.search(i); ok {
		return v.val[p], true
	}
	return 0, false
}

// Has reports whether index i is structurally present.
func (v *Vector) Has(i int) bool {
	v.checkIndex(i)
	_, ok := v.search(i)
	return ok
}

// Set stores x at index i, inserting or overwriting.
func (v *Vector) Set(i int, x float64) {
	v.checkIndex(i)
	p, ok := v.search(i)
	if ok {
		v.val[p] = x
		return
	}
	v.idx = append(v.idx, 0)
	v.val = append(v.val, 0)
	copy(v.idx[p+1:], v.idx[p:])
	copy(v.val[p+1:], v.val[p:])
	v.idx[p] = i
	v.val[p] = x
}

// Remove deletes the entry at index i if present.
func (v *Vector) Remove(i int) {
	v.checkIndex(i)
	p, ok := v.search(i)
	if !ok {
		return
	}
	v.idx = append(v.idx[:p], v.idx[p+1:]...)
	v.val = append(v.val[:p], v.val[p+1:]...)
}

// push appends an entry that is known to follow all existing indices.
func (v *Vector) push(i int, x float64) {
	v.idx = append(v.idx, i)
	v.val = append(v.val, x)
}

// Clone returns an independent copy.
func (v *Vector) Clone() *Vector {
	w := &Vector{n: v.n, idx: make([]int, len(v.idx)), val: make([]float64, len(v.val))}
	copy(w.idx, v.idx)
	copy(w.val, v.val)
	return w
}

// Iterate calls fn for each stored entry in ascending index order until fn
// returns false.
func (v *Vector) Iterate(fn func(i int, x float64) bool) {
	for p, i := range v.idx {
		if !fn(i, v.val[p]) {
			return
		}
	}
}

// Indices returns a copy of the stored index set in ascending order.
func (v *Vector) Indices() []int {
	out := make([]int, len(v.idx))
	copy(out, v.idx)
	return out
}

// Reduce folds all stored values through the monoid, seeding with the first
// entry. An empty vector reduces to the monoid identity.
func (v *Vector) Reduce(m semiring.Monoid) float64 {
	if len(v.val) == 0 {
		return m.Identity
	}
	acc := v.val[0]
	for _, x := range v.val[1:] {
		acc = m.Op(acc, x)
	}
	return acc
}

// Apply returns a new vector with fn applied to every stored value. The
// structure is unchanged.
func (v *Vector) Apply(fn func(x float64) float64) *Vector {
	w := v.Clone()
	for p := range w.val {
		w.val[p] = fn(w.val[p])
	}
	return w
}

// Select returns a new vector keeping only entries for which keep is true.
func (v *Vector) Select(keep func(i int, x float64) bool) *Vector {
	w := NewVector(v.n)
	for p, i := range v.idx {
		if keep(i, v.val[p]) {
			w.push(i, v.val[p])
		}
	}
	return w
}

// AssignConstant stores x at every position structurally present in mask.
// Mask values are ignored.
func (v *Vector) AssignConstant(mask *Vector, x float64) {
	if mask.n != v.n {
		panic("sparse: dimension mismatch")
	}
	for _, i := range mask.idx {
		v.Set(i, x)
	}
}

// EWiseAdd merges v and w over the union of their structures. Where both
// entries are present they are combined with op; a lone entry passes
// through unchanged.
func (v *Vector) EWiseAdd(w *Vector, op semiring.BinaryOp) *Vector {
	if v.n != w.n {
		panic("sparse: dimension mismatch")
	}
	out := NewVector(v.n)
	a, b := 0, 0
	for a < len(v.idx) && b < len(w.idx) {
		switch {
		case v.idx[a] < w.idx[b]:
			out.push(v.idx[a], v.val[a])
			a++
		case v.idx[a] > w.idx[b]:
			out.push(w.idx[b], w.val[b])
			b++
		default:
			out.push(v.idx[a], op(v.val[a], w.val[b]))
			a++
			b++
		}
	}
	for ; a < len(v.idx); a++ {
		out.push(v.idx[a], v.val[a])
	}
	for ; b < len(w.idx); b++ {
		out.push(w.idx[b], w.val[b])
	}
	return out
}

// EWiseMult combines v and w over the intersection of their structures.
func (v *Vector) EWiseMult(w *Vector, op semiring.BinaryOp) *Vector {
	if v.n != w.n {
		panic("sparse: dimension mismatch")
	}
	out := NewVector(v.n)
	a, b := 0, 0
	for a < len(v.idx) && b < len(w.idx) {
		switch {
		case v.idx[a] < w.idx[b]:
			a++
		case v.idx[a] > w.idx[b]:
			b++
		default:
			out.push(v.idx[a], op(v.val[a], w.val[b]))
			a++
			b++
		}
	}
	return out
}

// Equal reports whether v and w have identical length, structure, and
// values. Float comparison is exact.
func (v *Vector) Equal(w *Vector) bool {
	if v.n != w.n || len(v.idx) != len(w.idx) {
		return false
	}
	for p := range v.idx {
		if v.idx[p] != w.idx[p] || v.val[p] != w.val[p] {
			return false
		}
	}
	return true
}
