// Package graph defines the input boundary of the engine: the narrow
// Source capability the adjacency builder consumes, an in-memory Graph
// implementation of it, and a PostgreSQL-backed loader.
package graph

// Edge is one connection between two labeled nodes. Attrs carries optional
// numeric edge attributes; which attribute acts as the weight is decided by
// the adjacency builder, not the edge.
type Edge struct {
	From  string
	To    string
	Attrs map[string]float64
}

// Source is the full capability the adjacency builder requires from a
// graph input: enumerate nodes, enumerate edges, report directedness.
// Anything satisfying it is accepted, nothing else is consulted.
//
// Nodes must be returned in a deterministic order for an unchanged source,
// since node positions in the adjacency matrix follow first-seen order.
// A Source must not change while an algorithm invocation is running.
type Source interface {
	Nodes() []string
	Edges() []Edge
	Directed() bool
}

// Graph is an in-memory Source with insertion-ordered nodes.
type Graph struct {
	directed bool
	order    []string
	present  map[string]struct{}
	edges    []Edge
}

// NewGraph returns an empty undirected graph.
func NewGraph() *Graph {
	return &Graph{present: make(map[string]struct{})}
}

// NewDiGraph returns an empty directed graph.
func NewDiGraph() *Graph {
	return &Graph{directed: true, present: make(map[string]struct{})}
}

// AddNode adds a node if it is not already present.
func (g *Graph) AddNode(label string) {
	if _, ok := g.present[label]; ok {
		return
	}
	g.present[label] = struct{}{}
	g.order = append(g.order, label)
}

// AddEdge adds an edge, adding missing endpoints first. Attrs may be nil.
// The graph does not resolve duplicate edges; that is the adjacency
// builder's duplicate policy.
func (g *Graph) AddEdge(from, to string, attrs map[string]float64) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges = append(g.edges, Edge{From: from, To: to, Attrs: attrs})
}

// AddWeightedEdge adds an edge carrying a "weight" attribute.
func (g *Graph) AddWeightedEdge(from, to string, weight float64) {
	g.AddEdge(from, to, map[string]float64{"weight": weight})
}

// Nodes returns the node labels in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Directed reports whether edges are one-way.
func (g *Graph) Directed() bool { return g.directed }

// HasNode reports whether a label is present.
func (g *Graph) HasNode(label string) bool {
	_, ok := g.present[label]
	return ok
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.order) }

// NumEdges returns the edge count as supplied, before any undirected
// mirroring or duplicate resolution.
func (g *Graph) NumEdges() int { return len(g.edges) }
