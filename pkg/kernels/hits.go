package kernels

import (
	"math"

	"github.com/dd0wney/cluso-semigraph/pkg/fixpoint"
	"github.com/dd0wney/cluso-semigraph/pkg/semiring"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// HITSOptions configures the hubs-and-authorities power iteration.
type HITSOptions struct {
	MaxIterations int
	Tolerance     float64 // L1 threshold on the hub vector change
}

// DefaultHITSOptions returns the conventional parameters.
func DefaultHITSOptions() HITSOptions {
	return HITSOptions{MaxIterations: 100, Tolerance: 1e-8}
}

// HITSResult holds hub and authority scores in index space, each scaled to
// sum to 1.
type HITSResult struct {
	Hubs        *sparse.Vector
	Authorities *sparse.Vector
	Iterations  int
	Converged   bool
}

type hitsState struct {
	hubs        *sparse.Vector
	authorities *sparse.Vector
}

// HITS computes hub and authority scores by alternating multiplication
// with the adjacency matrix and its transpose: a good hub points at good
// authorities, a good authority is pointed at by good hubs. Scores are
// max-normalized each round to keep the iteration from overflowing and
// sum-normalized on return.
//
// Hitting the budget is reported through Converged; the engine raises it
// as a convergence failure.
func HITS(A *sparse.Matrix, opts HITSOptions) (*HITSResult, error) {
	if err := validatePower("hits", opts.Tolerance, opts.MaxIterations); err != nil {
		return nil, err
	}

	n := A.Rows()
	if n == 0 {
		return &HITSResult{
			Hubs:        sparse.NewVector(0),
			Authorities: sparse.NewVector(0),
			Converged:   true,
		}, nil
	}

	step := func(st hitsState) (hitsState, error) {
		auths := maxNormalize(sparse.VxM(st.hubs, A, semiring.PlusTimes, nil, false))
		hubs := maxNormalize(sparse.MxV(A, auths, semiring.PlusTimes, nil, false))
		return hitsState{hubs: hubs, authorities: auths}, nil
	}
	hubsSettled := func(prev, next hitsState) bool {
		diff := next.hubs.EWiseAdd(prev.hubs, func(a, b float64) float64 { return math.Abs(a - b) })
		return diff.Reduce(semiring.PlusMonoid) < opts.Tolerance
	}

	initial := hitsState{
		hubs:        sparse.DenseVector(n, 1/float64(n)),
		authorities: sparse.NewVector(n),
	}
	out, err := fixpoint.Run(initial, step, hubsSettled, opts.MaxIterations)
	if err != nil {
		return nil, err
	}
	return &HITSResult{
		Hubs:        sumNormalize(out.State.hubs),
		Authorities: sumNormalize(out.State.authorities),
		Iterations:  out.Iterations,
		Converged:   out.Converged,
	}, nil
}

func maxNormalize(v *sparse.Vector) *sparse.Vector {
	m := v.Reduce(semiring.MaxMonoid)
	if v.Nvals() == 0 || m == 0 {
		return v
	}
	return v.Apply(func(x float64) float64 { return x / m })
}

func sumNormalize(v *sparse.Vector) *sparse.Vector {
	s := v.Reduce(semiring.PlusMonoid)
	if v.Nvals() == 0 || s == 0 {
		return v
	}
	return v.Apply(func(x float64) float64 { return x / s })
}
