package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-semigraph/pkg/engine"
	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/parallel"
)

func main() {
	// Narrative goes to stdout; keep structured logs on stderr and quiet.
	logging.SetDefaultLogger(logging.NewJSONLogger(os.Stderr, logging.WarnLevel))

	fmt.Printf("🔥 Semigraph Engine Demo\n")
	fmt.Printf("========================\n\n")

	section(1, "Build the friendship graph")
	friendships := buildFriendshipGraph()
	social, err := engine.New(friendships, engine.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	sum, err := social.Summary()
	if err != nil {
		log.Fatalf("Failed to build matrix: %v", err)
	}
	fmt.Printf("   Nodes:    %d\n", sum.Nodes)
	fmt.Printf("   Entries:  %d (mirrored, the graph is undirected)\n", sum.Entries)

	section(2, "Degree centrality")
	fmt.Printf("Who has the most friends, scaled by the possible maximum?\n\n")
	degrees, err := social.DegreeCentrality()
	if err != nil {
		log.Fatalf("DegreeCentrality: %v", err)
	}
	printTop(degrees, 5)

	section(3, "Shortest paths")
	fmt.Printf("Hops from alice to everyone:\n\n")
	hops, err := social.SingleSourceShortestPathLength("alice")
	if err != nil {
		log.Fatalf("SingleSourceShortestPathLength: %v", err)
	}
	printHops(hops)

	fmt.Printf("\nWeighted distances (edge weight = interaction cost):\n\n")
	dist, err := social.SingleSourceBellmanFordPathLength("alice")
	if err != nil {
		log.Fatalf("SingleSourceBellmanFordPathLength: %v", err)
	}
	printDistances(dist)

	section(4, "Triangles and clustering")
	tri, err := social.Triangles()
	if err != nil {
		log.Fatalf("Triangles: %v", err)
	}
	total := 0
	for _, c := range tri {
		total += c
	}
	fmt.Printf("   Triangles through all nodes: %d (each triangle counted at 3 corners)\n", total)

	cl, err := social.Clustering()
	if err != nil {
		log.Fatalf("Clustering: %v", err)
	}
	fmt.Printf("   Clustering of carol: %.4f (one of her 3 friend pairs knows each other)\n", cl["carol"])

	tr, err := social.Transitivity()
	if err != nil {
		log.Fatalf("Transitivity: %v", err)
	}
	avg, err := social.AverageClustering()
	if err != nil {
		log.Fatalf("AverageClustering: %v", err)
	}
	fmt.Printf("   Transitivity:        %.4f\n", tr)
	fmt.Printf("   Average clustering:  %.4f\n", avg)

	section(5, "Betweenness centrality")
	fmt.Printf("Who sits on the most shortest paths?\n\n")
	bc, err := social.BetweennessCentrality()
	if err != nil {
		log.Fatalf("BetweennessCentrality: %v", err)
	}
	printTop(bc, 5)

	section(6, "Connected components")
	fmt.Printf("A second graph: two teams and a new hire nobody has met.\n\n")
	teams, err := engine.New(buildTeamGraph(), engine.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	comps, err := teams.ConnectedComponents()
	if err != nil {
		log.Fatalf("ConnectedComponents: %v", err)
	}
	for i, comp := range comps {
		fmt.Printf("   Component %d: %s\n", i+1, strings.Join(comp, ", "))
	}

	section(7, "Dominating sets")
	fmt.Printf("Can a few well-placed people reach the whole friendship graph?\n\n")
	for _, set := range [][]string{
		{"alice", "dave", "grace"},
		{"alice", "dave", "grace", "ivan"},
	} {
		ok, err := social.IsDominatingSet(set)
		if err != nil {
			log.Fatalf("IsDominatingSet: %v", err)
		}
		verdict := "✗ misses someone"
		if ok {
			verdict = "✓ covers everyone"
		}
		fmt.Printf("   {%s}: %s\n", strings.Join(set, ", "), verdict)
	}

	section(8, "Directed analysis: the follow graph")
	follows := buildFollowGraph()
	network, err := engine.New(follows, engine.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	fmt.Printf("PageRank (who accumulates follows?):\n\n")
	ranks, err := network.PageRank()
	if err != nil {
		log.Fatalf("PageRank: %v", err)
	}
	printTop(ranks, 5)

	fmt.Printf("\nHITS hubs and authorities:\n\n")
	hubs, auths, err := network.HITS()
	if err != nil {
		log.Fatalf("HITS: %v", err)
	}
	fmt.Printf("   Top hub:       %s\n", argmax(hubs))
	fmt.Printf("   Top authority: %s\n", argmax(auths))

	fmt.Printf("\nReachability: who does judy reach by following follows?\n\n")
	desc, err := network.Descendants("judy")
	if err != nil {
		log.Fatalf("Descendants: %v", err)
	}
	fmt.Printf("   %s\n", strings.Join(sortedKeys(desc), ", "))

	fmt.Printf("\nStrongly connected components (mutual-follow circles):\n\n")
	sccs, err := network.StronglyConnectedComponents()
	if err != nil {
		log.Fatalf("StronglyConnectedComponents: %v", err)
	}
	for _, comp := range sccs {
		if len(comp) > 1 {
			fmt.Printf("   circle: %s\n", strings.Join(comp, ", "))
		}
	}

	section(9, "Batch execution")
	fmt.Printf("Run a panel of analyses concurrently over one shared matrix:\n\n")
	runner, err := parallel.NewBatchRunner(social, 4)
	if err != nil {
		log.Fatalf("NewBatchRunner: %v", err)
	}
	defer runner.Close()

	jobs := []parallel.Job{
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
		{Name: "betweenness_centrality", Run: func(b engine.Backend) (any, error) { return b.BetweennessCentrality() }},
		{Name: "clustering", Run: func(b engine.Backend) (any, error) { return b.Clustering() }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
		{Name: "degree_centrality", Run: func(b engine.Backend) (any, error) { return b.DegreeCentrality() }},
	}
	results := runner.Run(jobs)

	fmt.Printf("   %-24s %-10s %s\n", "Job", "Status", "Time")
	fmt.Printf("   ─────────────────────────────────────────────\n")
	for _, res := range results {
		status := "✓ ok"
		if res.Err != nil {
			status = "✗ " + res.Err.Error()
		}
		fmt.Printf("   %-24s %-10s %s\n", res.Name, status, res.Elapsed)
	}

	fmt.Printf("\n✅ Demo complete\n")
}

func section(n int, title string) {
	fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("📊 Part %d: %s\n", n, title)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}

// buildFriendshipGraph returns an undirected network of ten people.
// Weights grade how costly each tie is to traverse.
func buildFriendshipGraph() *graph.Graph {
	g := graph.NewGraph()
	for _, e := range []struct {
		from, to string
		weight   float64
	}{
		{"alice", "bob", 5},
		{"alice", "carol", 3},
		{"bob", "carol", 4},
		{"carol", "dave", 2},
		{"dave", "erin", 1},
		{"dave", "frank", 2},
		{"erin", "frank", 4},
		{"frank", "grace", 1},
		{"grace", "heidi", 3},
		{"grace", "judy", 2},
		{"heidi", "ivan", 2},
		{"ivan", "judy", 1},
	} {
		g.AddWeightedEdge(e.from, e.to, e.weight)
	}
	return g
}

func buildTeamGraph() *graph.Graph {
	g := graph.NewGraph()
	g.AddEdge("amy", "ben", nil)
	g.AddEdge("ben", "cho", nil)
	g.AddEdge("amy", "cho", nil)
	g.AddEdge("dia", "eli", nil)
	g.AddNode("newhire")
	return g
}

func buildFollowGraph() *graph.Graph {
	g := graph.NewDiGraph()
	for _, e := range [][2]string{
		{"bob", "alice"}, {"carol", "alice"}, {"dave", "alice"}, {"erin", "alice"},
		{"alice", "bob"}, {"frank", "bob"},
		{"grace", "carol"}, {"heidi", "grace"}, {"ivan", "grace"}, {"judy", "ivan"},
	} {
		g.AddEdge(e[0], e[1], nil)
	}
	return g
}

func printTop(scores map[string]float64, n int) {
	type entry struct {
		name  string
		score float64
	}
	ordered := make([]entry, 0, len(scores))
	max := 0.0
	for name, s := range scores {
		ordered = append(ordered, entry{name, s})
		if s > max {
			max = s
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].score != ordered[j].score {
			return ordered[i].score > ordered[j].score
		}
		return ordered[i].name < ordered[j].name
	})
	if len(ordered) > n {
		ordered = ordered[:n]
	}
	for i, e := range ordered {
		width := 0
		if max > 0 {
			width = int(40 * e.score / max)
		}
		fmt.Printf("   %d. %-8s %.4f %s\n", i+1, e.name, e.score, strings.Repeat("█", width))
	}
}

func printHops(hops map[string]int) {
	type entry struct {
		name string
		h    int
	}
	ordered := make([]entry, 0, len(hops))
	for name, h := range hops {
		ordered = append(ordered, entry{name, h})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].h != ordered[j].h {
			return ordered[i].h < ordered[j].h
		}
		return ordered[i].name < ordered[j].name
	})
	for _, e := range ordered {
		fmt.Printf("   %-8s %d hop(s)\n", e.name, e.h)
	}
}

func printDistances(dist map[string]float64) {
	names := make([]string, 0, len(dist))
	for name := range dist {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if dist[names[i]] != dist[names[j]] {
			return dist[names[i]] < dist[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		fmt.Printf("   %-8s %.1f\n", name, dist[name])
	}
}

func argmax(scores map[string]float64) string {
	best, bestScore := "", -1.0
	for name, s := range scores {
		if s > bestScore || (s == bestScore && name < best) {
			best, bestScore = name, s
		}
	}
	return best
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
