// Package semiring defines the algebraic structures that parameterize the
// sparse matrix and vector operations in pkg/sparse: binary operators,
// monoids, and the semirings that pair them. The value domain is float64
// throughout; boolean semirings encode true and false as 1 and 0.
package semiring

import "math"

// Monoid is an associative combine operation with an identity element.
// Multiplies and reductions seed their accumulator with the first operand
// and fold the remaining operands through Op, so Identity is only ever
// returned for an empty reduction. Operands are always folded in ascending
// index order, which makes the Any monoid deterministic: it keeps the
// lowest-indexed operand.
type Monoid struct {
	Op       func(a, b float64) float64
	Identity float64
}

// BinaryOp is the multiplicative operator of a semiring. During a multiply
// it always receives the vector entry as its first argument and the matrix
// entry as its second, for both VxM and MxV orientations.
type BinaryOp func(a, b float64) float64

// Semiring pairs an additive monoid with a multiplicative operator.
type Semiring struct {
	Add Monoid
	Mul BinaryOp
}

// Plus returns a + b.
func Plus(a, b float64) float64 { return a + b }

// Times returns a * b.
func Times(a, b float64) float64 { return a * b }

// Min returns the smaller of a and b.
func Min(a, b float64) float64 { return math.Min(a, b) }

// Max returns the larger of a and b.
func Max(a, b float64) float64 { return math.Max(a, b) }

// First returns its first operand, ignoring the second.
func First(a, _ float64) float64 { return a }

// Second returns its second operand, ignoring the first.
func Second(_, b float64) float64 { return b }

// Pair returns 1 regardless of its operands. It turns a multiply into a
// structural operation: only the presence of both entries matters.
func Pair(_, _ float64) float64 { return 1 }

// Any returns its first operand. Under ascending-index folding this keeps
// the first value produced.
func Any(a, _ float64) float64 { return a }

// Lor is boolean OR over 0/1 values.
func Lor(a, b float64) float64 {
	if a != 0 || b != 0 {
		return 1
	}
	return 0
}

// Land is boolean AND over 0/1 values.
func Land(a, b float64) float64 {
	if a != 0 && b != 0 {
		return 1
	}
	return 0
}

// Monoids over the operators above.
var (
	PlusMonoid = Monoid{Op: Plus, Identity: 0}
	MinMonoid  = Monoid{Op: Min, Identity: math.Inf(1)}
	MaxMonoid  = Monoid{Op: Max, Identity: math.Inf(-1)}
	AnyMonoid  = Monoid{Op: Any, Identity: 0}
	LorMonoid  = Monoid{Op: Lor, Identity: 0}
)

// The standard semirings consumed by the graph kernels.
var (
	// PlusTimes is conventional arithmetic matrix multiplication.
	PlusTimes = Semiring{Add: PlusMonoid, Mul: Times}

	// MinPlus is the tropical semiring: paths extend by addition and
	// compete by minimum. Used for shortest-path relaxation.
	MinPlus = Semiring{Add: MinMonoid, Mul: Plus}

	// LorLand is the boolean semiring for reachability.
	LorLand = Semiring{Add: LorMonoid, Mul: Land}

	// PlusPair counts structural intersections; the dot product of two
	// sparsity patterns is the size of their common support.
	PlusPair = Semiring{Add: PlusMonoid, Mul: Pair}

	// AnyPair reports whether any structural intersection exists. It is
	// the cheap form of LorLand: the fold can keep its first hit.
	AnyPair = Semiring{Add: AnyMonoid, Mul: Pair}

	// PlusFirst sums vector entries over the matrix structure, ignoring
	// stored matrix values. Used for path counting.
	PlusFirst = Semiring{Add: PlusMonoid, Mul: First}

	// PlusSecond sums matrix entries over the vector structure.
	PlusSecond = Semiring{Add: PlusMonoid, Mul: Second}

	// MinFirst propagates the minimum vector entry across edges, ignoring
	// stored matrix values. Used for label propagation.
	MinFirst = Semiring{Add: MinMonoid, Mul: First}

	// MinSecond selects the minimum matrix entry over the vector structure.
	MinSecond = Semiring{Add: MinMonoid, Mul: Second}
)
