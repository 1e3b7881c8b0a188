// Package adjacency turns a graph.Source into the CSR matrix the kernels
// consume. Node labels get dense indexes in first-seen order, so an
// unchanged source always produces the same matrix, and every label-space
// concern ends here: kernels and the driver work purely in index space.
package adjacency

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/kernels"
	"github.com/dd0wney/cluso-semigraph/pkg/sparse"
)

// DuplicatePolicy decides what happens when the same edge appears more
// than once. For undirected sources, an edge and its reverse count as the
// same edge.
type DuplicatePolicy int

const (
	// DuplicateReject treats a repeated edge as invalid input.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateSum adds the weights of repeated edges.
	DuplicateSum
	// DuplicateLast keeps the weight of the last occurrence.
	DuplicateLast
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateSum:
		return "sum"
	case DuplicateLast:
		return "last"
	default:
		return "unknown"
	}
}

// Options configures a build.
type Options struct {
	// WeightAttr names the edge attribute used as the matrix value.
	// Edges without the attribute weigh 1. Empty means "weight".
	WeightAttr string
	// OnDuplicate is the duplicate-edge policy. The zero value rejects.
	OnDuplicate DuplicatePolicy
}

// DefaultOptions returns the conventional build configuration.
func DefaultOptions() Options {
	return Options{WeightAttr: "weight", OnDuplicate: DuplicateReject}
}

// IndexMap is the two-way translation between node labels and matrix
// indexes, fixed at build time in first-seen order.
type IndexMap struct {
	labels []string
	ids    map[string]int
}

// IDOf returns the matrix index of a label.
func (m *IndexMap) IDOf(label string) (int, bool) {
	id, ok := m.ids[label]
	return id, ok
}

// LabelOf returns the label at a matrix index.
func (m *IndexMap) LabelOf(id int) (string, bool) {
	if id < 0 || id >= len(m.labels) {
		return "", false
	}
	return m.labels[id], true
}

// Len returns the number of indexed nodes.
func (m *IndexMap) Len() int { return len(m.labels) }

// Labels returns all labels in index order.
func (m *IndexMap) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Result is a built adjacency matrix with its label translation.
type Result struct {
	Matrix   *sparse.Matrix
	Index    *IndexMap
	Directed bool
}

type cell struct{ row, col int }

// Build assembles the adjacency matrix of a source. Undirected edges are
// stored in both triangles; a self-loop occupies a single diagonal cell.
// A dangling endpoint, a repeated node label, a NaN weight, or a repeated
// edge under the reject policy all surface as ErrInvalidGraph.
func Build(src graph.Source, opts Options) (*Result, error) {
	if opts.WeightAttr == "" {
		opts.WeightAttr = "weight"
	}
	switch opts.OnDuplicate {
	case DuplicateReject, DuplicateSum, DuplicateLast:
	default:
		return nil, kernels.NewError("adjacency").
			Detail("unknown duplicate policy %d", opts.OnDuplicate).
			Cause(kernels.ErrUnsupportedConfig).Err()
	}

	index, err := indexNodes(src.Nodes())
	if err != nil {
		return nil, err
	}
	directed := src.Directed()

	entries := make(map[cell]float64)
	seen := make(map[cell]bool)
	for _, e := range src.Edges() {
		from, ok := index.IDOf(e.From)
		if !ok {
			return nil, danglingEndpoint(e.From)
		}
		to, ok := index.IDOf(e.To)
		if !ok {
			return nil, danglingEndpoint(e.To)
		}

		w := 1.0
		if x, ok := e.Attrs[opts.WeightAttr]; ok {
			w = x
		}
		if math.IsNaN(w) {
			return nil, kernels.NewError("adjacency").
				Detail("edge %q->%q: weight is NaN", e.From, e.To).
				Cause(kernels.ErrInvalidGraph).Err()
		}

		// Undirected edges deduplicate on their canonical orientation.
		key := cell{from, to}
		if !directed && to < from {
			key = cell{to, from}
		}
		if seen[key] {
			switch opts.OnDuplicate {
			case DuplicateReject:
				return nil, kernels.NewError("adjacency").
					Detail("edge %q->%q appears more than once", e.From, e.To).
					Cause(kernels.ErrInvalidGraph).Err()
			case DuplicateSum:
				w += entries[key]
			case DuplicateLast:
				// w already holds the newest weight.
			}
		}
		seen[key] = true
		entries[key] = w
	}

	n := index.Len()
	return &Result{
		Matrix:   materialize(n, entries, directed),
		Index:    index,
		Directed: directed,
	}, nil
}

func indexNodes(labels []string) (*IndexMap, error) {
	index := &IndexMap{
		labels: make([]string, 0, len(labels)),
		ids:    make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		if _, dup := index.ids[label]; dup {
			return nil, kernels.NewError("adjacency").Node(label).
				Detail("node listed more than once").
				Cause(kernels.ErrInvalidGraph).Err()
		}
		index.ids[label] = len(index.labels)
		index.labels = append(index.labels, label)
	}
	return index, nil
}

func danglingEndpoint(label string) error {
	return kernels.NewError("adjacency").Node(label).
		Detail("edge endpoint is not among the nodes").
		Cause(kernels.ErrInvalidGraph).Err()
}

func materialize(n int, entries map[cell]float64, directed bool) *sparse.Matrix {
	if !directed {
		mirrored := make(map[cell]float64, 2*len(entries))
		for k, w := range entries {
			mirrored[k] = w
			mirrored[cell{k.col, k.row}] = w
		}
		entries = mirrored
	}

	keys := make([]cell, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].row != keys[b].row {
			return keys[a].row < keys[b].row
		}
		return keys[a].col < keys[b].col
	})

	rows := make([]int, len(keys))
	cols := make([]int, len(keys))
	vals := make([]float64, len(keys))
	for i, k := range keys {
		rows[i], cols[i], vals[i] = k.row, k.col, entries[k]
	}
	return sparse.FromTriples(n, n, rows, cols, vals)
}
