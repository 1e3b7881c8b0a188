package kernels

import (
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// IsDominatingSet reports whether every node outside the given set has
// at least one neighbor inside it. One structural vector-matrix product
// masked to the complement finds the dominated outsiders; the set
// dominates when the outsiders are all dominated. Duplicate entries in
// the set are allowed.
func IsDominatingSet(A *sparse.Matrix, set []int) (bool, error) {
	n := A.Rows()
	indicator := sparse.NewVector(n)
	for _, v := range set {
		if v < 0 || v >= n {
			return false, sourceOutOfRange("dominating", v, n)
		}
		indicator.Set(v, 1)
	}
	reached := sparse.VxM(indicator, A, semiring.AnyPair, indicator, true)
	return indicator.Nvals()+reached.Nvals() == n, nil
}
