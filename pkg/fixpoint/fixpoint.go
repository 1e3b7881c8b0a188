// Package fixpoint provides the bounded iteration harness shared by the
// iterative graph kernels: apply a step function until a convergence test
// accepts the state or the iteration budget is spent.
package fixpoint

import "fmt"

// Outcome is the final state of a bounded iteration.
type Outcome[S any] struct {
	State      S
	Iterations int
	Converged  bool
}

// Run applies step to the state until converged accepts a (previous, next)
// pair or maxIter applications have been made. It always runs at least one
// iteration and never more than maxIter; there is no other way to stop it,
// so every caller states a finite budget.
//
// Run never treats an exhausted budget as an error: it reports
// Converged=false and leaves the decision to raise to the calling kernel.
// Step errors are returned immediately with the last good state. The step
// must be a pure transform of its state; any matrices it reads are fixed
// for the duration of the run.
func Run[S any](initial S, step func(S) (S, error), converged func(prev, next S) bool, maxIter int) (Outcome[S], error) {
	out := Outcome[S]{State: initial}
	if maxIter < 1 {
		return out, fmt.Errorf("fixpoint: iteration budget must be positive, got %d", maxIter)
	}

	state := initial
	for i := 0; i < maxIter; i++ {
		next, err := step(state)
		out.Iterations = i + 1
		if err != nil {
			out.State = state
			return out, err
		}
		if converged(state, next) {
			out.State = next
			out.Converged = true
			return out, nil
		}
		state = next
	}

	out.State = state
	return out, nil
}
