package adjacency

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-semigraph/pkg/graph"
)

// randomSource builds a graph with random labeled edges. Weights stay
// positive so the sum policy never cancels an entry to an ambiguous zero.
func randomSource(r *rand.Rand, n, edges int, directed bool) *graph.Graph {
	var g *graph.Graph
	if directed {
		g = graph.NewDiGraph()
	} else {
		g = graph.NewGraph()
	}
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprintf("n%d", i))
	}
	for i := 0; i < edges; i++ {
		from := fmt.Sprintf("n%d", r.Intn(n))
		to := fmt.Sprintf("n%d", r.Intn(n))
		g.AddWeightedEdge(from, to, 0.5+r.Float64())
	}
	return g
}

func TestBuildProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("undirected builds are symmetric", prop.ForAll(
		func(n int, edges int, seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			g := randomSource(r, n, edges, false)

			opts := DefaultOptions()
			opts.OnDuplicate = DuplicateSum
			res, err := Build(g, opts)
			if err != nil {
				return false
			}
			return res.Matrix.IsStructurallySymmetric()
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 30),
		gen.Int64(),
	))

	properties.Property("same source always builds the same matrix", prop.ForAll(
		func(n int, edges int, seed int64, directed bool) bool {
			r := rand.New(rand.NewSource(seed))
			g := randomSource(r, n, edges, directed)

			opts := DefaultOptions()
			opts.OnDuplicate = DuplicateSum
			first, err := Build(g, opts)
			if err != nil {
				return false
			}
			second, err := Build(g, opts)
			if err != nil {
				return false
			}
			if !first.Matrix.Equal(second.Matrix) {
				return false
			}
			for i, label := range first.Index.Labels() {
				id, ok := second.Index.IDOf(label)
				if !ok || id != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 30),
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("mirrored cells carry equal weight", prop.ForAll(
		func(n int, edges int, seed int64) bool {
			r := rand.New(rand.NewSource(seed))
			g := randomSource(r, n, edges, false)

			opts := DefaultOptions()
			opts.OnDuplicate = DuplicateLast
			res, err := Build(g, opts)
			if err != nil {
				return false
			}
			dim := res.Index.Len()
			for i := 0; i < dim; i++ {
				for j := 0; j < dim; j++ {
					a, okA := res.Matrix.Get(i, j)
					b, okB := res.Matrix.Get(j, i)
					if okA != okB || a != b {
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(1, 10),
		gen.IntRange(0, 25),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
