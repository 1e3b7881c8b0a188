// Package kernels implements the graph algorithms as compositions of
// semiring matrix and vector operations: multiplies with structural masks,
// element-wise union and intersection, reductions, and triangular
// extraction. Kernels are pure functions over an adjacency matrix in index
// space; label translation belongs to pkg/results.
//
// Where multiple nodes tie (equal distance, equal label, pivot choice),
// every kernel resolves the tie to the lowest index.
package kernels

import (
	"errors"
	"fmt"
)

// The error taxonomy shared by the adjacency builder, the kernels, and the
// engine. Callers can rely on errors.Is against these sentinels no matter
// which layer raised the error.
var (
	// ErrInvalidGraph marks malformed input: a dangling edge endpoint, a
	// duplicate-edge policy violation, or an unknown node reference.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrConvergence marks an exhausted iteration budget for an algorithm
	// where non-convergence indicates a structural problem, such as a
	// negative-weight cycle.
	ErrConvergence = errors.New("no fixed point within iteration budget")

	// ErrUnsupportedConfig marks a parameter combination that is not
	// implemented, such as an undirected-only kernel on a directed matrix.
	ErrUnsupportedConfig = errors.New("unsupported configuration")
)

// KernelError carries structured context for a failed algorithm call.
type KernelError struct {
	Algorithm string // entry point that failed, e.g. "pagerank"
	Node      string // node reference when one is involved
	Detail    string // human-readable specifics
	Cause     error  // taxonomy sentinel, possibly wrapped further
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	switch {
	case e.Node != "" && e.Detail != "":
		return fmt.Sprintf("%s: node %q (%s): %v", e.Algorithm, e.Node, e.Detail, e.Cause)
	case e.Node != "":
		return fmt.Sprintf("%s: node %q: %v", e.Algorithm, e.Node, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s: %v", e.Algorithm, e.Detail, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Algorithm, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *KernelError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's cause.
func (e *KernelError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder assembles KernelErrors fluently.
type ErrorBuilder struct {
	err KernelError
}

// NewError starts a builder for the named algorithm.
func NewError(algorithm string) *ErrorBuilder {
	return &ErrorBuilder{err: KernelError{Algorithm: algorithm}}
}

// Node records the node involved.
func (b *ErrorBuilder) Node(label string) *ErrorBuilder {
	b.err.Node = label
	return b
}

// Index records the node involved by matrix position.
func (b *ErrorBuilder) Index(i int) *ErrorBuilder {
	b.err.Node = fmt.Sprintf("#%d", i)
	return b
}

// Detail records human-readable specifics.
func (b *ErrorBuilder) Detail(format string, args ...any) *ErrorBuilder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Cause records the underlying error.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the built error.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// sourceOutOfRange reports an invalid node index passed to a kernel.
func sourceOutOfRange(algorithm string, i, n int) error {
	return NewError(algorithm).Index(i).
		Detail("index outside matrix of dimension %d", n).
		Cause(ErrInvalidGraph).Err()
}

// negativeCycle reports relaxation still changing after the budget.
func negativeCycle(algorithm string, iterations int) error {
	return NewError(algorithm).
		Detail("distances still improving after %d relaxations, negative cycle suspected", iterations).
		Cause(ErrConvergence).Err()
}

// IsInvalidGraph reports whether err stems from malformed graph input.
func IsInvalidGraph(err error) bool {
	return errors.Is(err, ErrInvalidGraph)
}

// IsConvergence reports whether err stems from an exhausted iteration
// budget with structural meaning.
func IsConvergence(err error) bool {
	return errors.Is(err, ErrConvergence)
}

// IsUnsupportedConfig reports whether err stems from an unimplemented
// parameter combination.
func IsUnsupportedConfig(err error) bool {
	return errors.Is(err, ErrUnsupportedConfig)
}
