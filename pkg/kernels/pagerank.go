package kernels

import (
	"math"

	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// PageRankOptions configures the PageRank power iteration.
type PageRankOptions struct {
	DampingFactor float64 // probability of following an edge vs. teleporting
	MaxIterations int     // iteration budget
	Tolerance     float64 // L1 convergence threshold, scaled by n
}

// DefaultPageRankOptions returns the conventional parameters.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

// PageRankResult holds the rank estimate in index space.
type PageRankResult struct {
	Ranks      *sparse.Vector
	Iterations int
	Converged  bool
}

// PageRank computes the damped random-surfer stationary distribution.
// Each node's rank is split across its out-edges in proportion to edge
// weight; rank parked on nodes without usable out-edges is redistributed
// uniformly, so the vector sums to 1 every iteration. Convergence is the
// L1 test sum|Δ| < n·tolerance.
//
// Exhausting the budget without converging is not an error: the estimate
// is returned with Converged false and the caller decides.
func PageRank(A *sparse.Matrix, opts PageRankOptions) (*PageRankResult, error) {
	if err := validatePower("pagerank", opts.Tolerance, opts.MaxIterations); err != nil {
		return nil, err
	}
	if opts.DampingFactor <= 0 || opts.DampingFactor >= 1 {
		return nil, NewError("pagerank").
			Detail("damping factor %v outside (0, 1)", opts.DampingFactor).
			Cause(ErrUnsupportedConfig).Err()
	}

	n := A.Rows()
	if n == 0 {
		return &PageRankResult{Ranks: sparse.NewVector(0), Converged: true}, nil
	}
	fn := float64(n)

	// Out-weight per node; nodes whose out-weight is 0 cannot distribute
	// rank and count as dangling alongside nodes with no out-edges.
	outWeight := A.ReduceRows(semiring.PlusMonoid).
		Select(func(_ int, w float64) bool { return w != 0 })
	invOut := outWeight.Apply(func(w float64) float64 { return 1 / w })

	damping := opts.DampingFactor
	teleport := (1 - damping) / fn

	step := func(rank *sparse.Vector) (*sparse.Vector, error) {
		contrib := rank.EWiseMult(invOut, semiring.Times)
		spread := sparse.VxM(contrib, A, semiring.PlusTimes, nil, false)

		linked := rank.EWiseMult(invOut, semiring.First).Reduce(semiring.PlusMonoid)
		dangling := rank.Reduce(semiring.PlusMonoid) - linked

		base := teleport + damping*dangling/fn
		next := sparse.DenseVector(n, base)
		return next.EWiseAdd(
			spread.Apply(func(x float64) float64 { return damping * x }),
			semiring.Plus,
		), nil
	}
	l1Close := func(prev, next *sparse.Vector) bool {
		diff := next.EWiseAdd(prev, func(a, b float64) float64 { return math.Abs(a - b) })
		return diff.Reduce(semiring.PlusMonoid) < fn*opts.Tolerance
	}

	initial := sparse.DenseVector(n, 1/fn)
	out, err := fixpoint.Run(initial, step, l1Close, opts.MaxIterations)
	if err != nil {
		return nil, err
	}
	return &PageRankResult{
		Ranks:      out.State,
		Iterations: out.Iterations,
		Converged:  out.Converged,
	}, nil
}

// validatePower rejects parameters no power iteration can run with.
func validatePower(algorithm string, tolerance float64, maxIterations int) error {
	if tolerance <= 0 {
		return NewError(algorithm).
			Detail("tolerance %v must be positive", tolerance).
			Cause(ErrUnsupportedConfig).Err()
	}
	if maxIterations < 1 {
		return NewError(algorithm).
			Detail("iteration budget %d must be positive", maxIterations).
			Cause(ErrUnsupportedConfig).Err()
	}
	return nil
}
