// Package results translates kernel output from index space back to node
// labels. Kernels leave structurally absent what they did not touch; each
// mapper here decides whether absence densifies to a fill value or stays
// omitted, so the choice is visible at the call site.
package results

import (
	"github.com/dd0wney/cluso-semigraph/pkg/adjacency"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// Float64Map returns a value for every indexed node, substituting fill
// where the vector has no entry. Centralities and clustering coefficients
// map this way: absence means zero.
func Float64Map(v *sparse.Vector, index *adjacency.IndexMap, fill float64) map[string]float64 {
	out := make(map[string]float64, index.Len())
	for i, label := range index.Labels() {
		x, ok := v.Get(i)
		if !ok {
			x = fill
		}
		out[label] = x
	}
	return out
}

// IntMap is Float64Map for integral results such as counts.
func IntMap(v *sparse.Vector, index *adjacency.IndexMap, fill int) map[string]int {
	out := make(map[string]int, index.Len())
	for i, label := range index.Labels() {
		if x, ok := v.Get(i); ok {
			out[label] = int(x)
		} else {
			out[label] = fill
		}
	}
	return out
}

// SparseFloat64Map keeps only present entries. Distances map this way:
// an unreachable node has no distance, not a zero one.
func SparseFloat64Map(v *sparse.Vector, index *adjacency.IndexMap) map[string]float64 {
	out := make(map[string]float64, v.Nvals())
	v.Iterate(func(i int, x float64) bool {
		if label, ok := index.LabelOf(i); ok {
			out[label] = x
		}
		return true
	})
	return out
}

// SparseIntMap keeps only present entries of an integral result, such as
// traversal levels.
func SparseIntMap(v *sparse.Vector, index *adjacency.IndexMap) map[string]int {
	out := make(map[string]int, v.Nvals())
	v.Iterate(func(i int, x float64) bool {
		if label, ok := index.LabelOf(i); ok {
			out[label] = int(x)
		}
		return true
	})
	return out
}

// Set returns the labels of all present entries, for structural results
// such as reachability.
func Set(v *sparse.Vector, index *adjacency.IndexMap) map[string]bool {
	out := make(map[string]bool, v.Nvals())
	v.Iterate(func(i int, _ float64) bool {
		if label, ok := index.LabelOf(i); ok {
			out[label] = true
		}
		return true
	})
	return out
}

// Groups converts a component labeling into label groups. Nodes sharing a
// label value form one group; members keep index order and groups are
// ordered by their lowest member, which is also the label value the
// component kernels assign.
func Groups(labels *sparse.Vector, index *adjacency.IndexMap) [][]string {
	var order []int
	members := make(map[int][]string)
	labels.Iterate(func(i int, x float64) bool {
		label, ok := index.LabelOf(i)
		if !ok {
			return true
		}
		rep := int(x)
		if _, seen := members[rep]; !seen {
			order = append(order, rep)
		}
		members[rep] = append(members[rep], label)
		return true
	})

	out := make([][]string, 0, len(order))
	for _, rep := range order {
		out = append(out, members[rep])
	}
	return out
}
