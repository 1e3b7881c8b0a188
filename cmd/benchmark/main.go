package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/dd0wney/cluso-semigraph/pkg/engine"
	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/parallel"
)

func main() {
	nodes := flag.Int("nodes", 500, "Number of nodes in the synthetic graph")
	attach := flag.Int("attach", 4, "Edges attached from each new node to earlier nodes")
	seed := flag.Int64("seed", 42, "Random seed for graph generation")
	directed := flag.Bool("directed", false, "Generate a directed graph")
	workers := flag.Int("workers", 4, "Workers for the batched run")
	sources := flag.Int("sources", 25, "Traversal queries per traversal benchmark")
	flag.Parse()

	logging.SetDefaultLogger(logging.NewJSONLogger(os.Stderr, logging.WarnLevel))

	fmt.Printf("⚡ Semigraph Algorithm Benchmark\n")
	fmt.Printf("================================\n\n")

	fmt.Printf("🔧 Generating graph (nodes=%d, attach=%d, seed=%d, directed=%v)...\n",
		*nodes, *attach, *seed, *directed)
	g := generateGraph(*nodes, *attach, *seed, *directed)

	eng, err := engine.New(g, engine.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	buildStart := time.Now()
	sum, err := eng.Summary()
	if err != nil {
		log.Fatalf("Failed to build matrix: %v", err)
	}
	fmt.Printf("   Nodes:   %d\n", sum.Nodes)
	fmt.Printf("   Entries: %d\n", sum.Entries)
	fmt.Printf("   Build:   %s\n\n", time.Since(buildStart))

	jobs := panelFor(*directed)

	fmt.Printf("🎯 Sequential run\n\n")
	fmt.Printf("%-30s %-12s %s\n", "Algorithm", "Time", "Result")
	fmt.Printf("──────────────────────────────────────────────────────────\n")
	var sequential time.Duration
	for _, job := range jobs {
		start := time.Now()
		value, err := job.Run(eng)
		elapsed := time.Since(start)
		sequential += elapsed
		if err != nil {
			fmt.Printf("%-30s %-12s ✗ %v\n", job.Name, elapsed.Round(time.Microsecond), err)
			continue
		}
		fmt.Printf("%-30s %-12s %s\n", job.Name, elapsed.Round(time.Microsecond), describe(value))
	}

	fmt.Printf("\n🌐 Traversal queries (%d random sources)\n\n", *sources)
	runTraversalBenchmark(eng, g, *sources, *seed)

	fmt.Printf("\n🚀 Batched run (%d workers)\n\n", *workers)
	runner, err := parallel.NewBatchRunner(eng, *workers)
	if err != nil {
		log.Fatalf("NewBatchRunner: %v", err)
	}
	defer runner.Close()

	batchStart := time.Now()
	results := runner.Run(jobs)
	wall := time.Since(batchStart)

	for _, res := range results {
		status := "✓"
		if res.Err != nil {
			status = "✗"
		}
		fmt.Printf("%-30s %-12s %s\n", res.Name, res.Elapsed.Round(time.Microsecond), status)
	}

	fmt.Printf("\n📈 Summary\n")
	fmt.Printf("──────────────────────────\n")
	fmt.Printf("Sequential total: %s\n", sequential.Round(time.Microsecond))
	fmt.Printf("Batched wall:     %s\n", wall.Round(time.Microsecond))
	if wall > 0 {
		fmt.Printf("Speedup:          %.2fx\n", float64(sequential)/float64(wall))
	}
}

// generateGraph grows a graph by attaching each new node to `attach`
// distinct earlier nodes chosen uniformly. Directed edges point from new
// to old, the citation pattern.
func generateGraph(nodes, attach int, seed int64, directed bool) *graph.Graph {
	r := rand.New(rand.NewSource(seed))

	var g *graph.Graph
	if directed {
		g = graph.NewDiGraph()
	} else {
		g = graph.NewGraph()
	}

	label := func(i int) string { return fmt.Sprintf("n%04d", i) }
	g.AddNode(label(0))

	for i := 1; i < nodes; i++ {
		g.AddNode(label(i))
		k := attach
		if k > i {
			k = i
		}
		seen := make(map[int]bool, k)
		for len(seen) < k {
			target := r.Intn(i)
			if seen[target] {
				continue
			}
			seen[target] = true
			g.AddWeightedEdge(label(i), label(target), 1+r.Float64()*9)
		}
	}
	return g
}

func panelFor(directed bool) []parallel.Job {
	common := []parallel.Job{
		{Name: "degree_centrality", Run: func(b engine.Backend) (any, error) { return b.DegreeCentrality() }},
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
		{Name: "clustering", Run: func(b engine.Backend) (any, error) { return b.Clustering() }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
		{Name: "average_clustering", Run: func(b engine.Backend) (any, error) { return b.AverageClustering() }},
		{Name: "betweenness_centrality", Run: func(b engine.Backend) (any, error) { return b.BetweennessCentrality() }},
	}
	if directed {
		return append(common,
			parallel.Job{Name: "hits", Run: func(b engine.Backend) (any, error) {
				hubs, _, err := b.HITS()
				return hubs, err
			}},
			parallel.Job{Name: "in_degree_centrality", Run: func(b engine.Backend) (any, error) { return b.InDegreeCentrality() }},
			parallel.Job{Name: "out_degree_centrality", Run: func(b engine.Backend) (any, error) { return b.OutDegreeCentrality() }},
			parallel.Job{Name: "weakly_connected_components", Run: func(b engine.Backend) (any, error) { return b.WeaklyConnectedComponents() }},
			parallel.Job{Name: "strongly_connected_components", Run: func(b engine.Backend) (any, error) { return b.StronglyConnectedComponents() }},
		)
	}
	return append(common,
		parallel.Job{Name: "triangles", Run: func(b engine.Backend) (any, error) { return b.Triangles() }},
		parallel.Job{Name: "connected_components", Run: func(b engine.Backend) (any, error) { return b.ConnectedComponents() }},
	)
}

func runTraversalBenchmark(eng *engine.Engine, g *graph.Graph, queries int, seed int64) {
	r := rand.New(rand.NewSource(seed + 1))
	labels := g.Nodes()
	if len(labels) == 0 || queries <= 0 {
		return
	}

	stats := struct {
		bfsTime  time.Duration
		ssspTime time.Duration
		reached  int
	}{}

	for i := 0; i < queries; i++ {
		source := labels[r.Intn(len(labels))]

		start := time.Now()
		hops, err := eng.SingleSourceShortestPathLength(source)
		if err != nil {
			log.Fatalf("BFS from %s: %v", source, err)
		}
		stats.bfsTime += time.Since(start)
		stats.reached += len(hops)

		start = time.Now()
		if _, err := eng.SingleSourceBellmanFordPathLength(source); err != nil {
			log.Fatalf("SSSP from %s: %v", source, err)
		}
		stats.ssspTime += time.Since(start)
	}

	fmt.Printf("%-30s %-12s %s\n", "Traversal", "Avg time", "Notes")
	fmt.Printf("──────────────────────────────────────────────────────────\n")
	fmt.Printf("%-30s %-12s avg %d nodes reached\n", "bfs_levels",
		(stats.bfsTime / time.Duration(queries)).Round(time.Microsecond),
		stats.reached/queries)
	fmt.Printf("%-30s %-12s weighted distances\n", "bellman_ford",
		(stats.ssspTime / time.Duration(queries)).Round(time.Microsecond))
}

func describe(value any) string {
	switch v := value.(type) {
	case map[string]float64:
		return fmt.Sprintf("%d scores", len(v))
	case map[string]int:
		return fmt.Sprintf("%d counts", len(v))
	case map[string]bool:
		return fmt.Sprintf("%d nodes", len(v))
	case [][]string:
		return fmt.Sprintf("%d components", len(v))
	case float64:
		return fmt.Sprintf("%.6f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case bool:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%T", v)
	}
}
