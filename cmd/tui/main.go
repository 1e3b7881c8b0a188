package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-semigraph/pkg/engine"
	"github.com/dd0wney/cluso-semigraph/pkg/graph"
	"github.com/dd0wney/cluso-semigraph/pkg/logging"
	"github.com/dd0wney/cluso-semigraph/pkg/parallel"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FFAA00")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	algorithmsView
	resultsView
	batchView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Source   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Source: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "edit source"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Source, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Enter, k.Source},
		{k.Quit},
	}
}

// algoItem is one runnable entry in the algorithm catalog.
type algoItem struct {
	name        string
	desc        string
	needsSource bool
	run         func(b engine.Backend, source string) (any, error)
}

func (a algoItem) Title() string       { return a.name }
func (a algoItem) Description() string { return a.desc }
func (a algoItem) FilterValue() string { return a.name }

// hitsScores keeps hub and authority maps together for rendering.
type hitsScores struct {
	hubs  map[string]float64
	auths map[string]float64
}

func catalog() []list.Item {
	return []list.Item{
		algoItem{"degree_centrality", "Degree scaled by the possible maximum", false,
			func(b engine.Backend, _ string) (any, error) { return b.DegreeCentrality() }},
		algoItem{"pagerank", "Damped random-surfer stationary distribution", false,
			func(b engine.Backend, _ string) (any, error) { return b.PageRank() }},
		algoItem{"hits", "Hub and authority scores (directed graphs)", false,
			func(b engine.Backend, _ string) (any, error) {
				hubs, auths, err := b.HITS()
				if err != nil {
					return nil, err
				}
				return hitsScores{hubs, auths}, nil
			}},
		algoItem{"betweenness_centrality", "Share of shortest paths through each node", false,
			func(b engine.Backend, _ string) (any, error) { return b.BetweennessCentrality() }},
		algoItem{"in_degree_centrality", "Incoming degree (directed graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.InDegreeCentrality() }},
		algoItem{"out_degree_centrality", "Outgoing degree (directed graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.OutDegreeCentrality() }},
		algoItem{"clustering", "Per-node clustering coefficient", false,
			func(b engine.Backend, _ string) (any, error) { return b.Clustering() }},
		algoItem{"triangles", "Triangles through each node (undirected graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.Triangles() }},
		algoItem{"transitivity", "Global closed-triad ratio", false,
			func(b engine.Backend, _ string) (any, error) { return b.Transitivity() }},
		algoItem{"average_clustering", "Mean clustering coefficient", false,
			func(b engine.Backend, _ string) (any, error) { return b.AverageClustering() }},
		algoItem{"connected_components", "Components (undirected graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.ConnectedComponents() }},
		algoItem{"weakly_connected_components", "Components ignoring direction (directed graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.WeaklyConnectedComponents() }},
		algoItem{"strongly_connected_components", "Mutually reachable sets (directed graphs)", false,
			func(b engine.Backend, _ string) (any, error) { return b.StronglyConnectedComponents() }},
		algoItem{"shortest_path_length", "Hop counts from the source node", true,
			func(b engine.Backend, source string) (any, error) { return b.SingleSourceShortestPathLength(source) }},
		algoItem{"bellman_ford", "Weighted distances from the source node", true,
			func(b engine.Backend, source string) (any, error) { return b.SingleSourceBellmanFordPathLength(source) }},
		algoItem{"descendants", "Everything reachable from the source node", true,
			func(b engine.Backend, source string) (any, error) { return b.Descendants(source) }},
		algoItem{"is_dominating_set", "Check a comma-separated node set for coverage", true,
			func(b engine.Backend, source string) (any, error) {
				return b.IsDominatingSet(splitNodeList(source))
			}},
	}
}

func splitNodeList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	nodes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nodes = append(nodes, p)
		}
	}
	return nodes
}

type model struct {
	eng         *engine.Engine
	runner      *parallel.BatchRunner
	currentView view
	algoList    list.Model
	sourceInput textinput.Model
	resultTable table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	summary     engine.Summary
	lastResult  string
	batchRows   []parallel.JobResult
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(eng *engine.Engine, runner *parallel.BatchRunner) model {
	ti := textinput.New()
	ti.Placeholder = "source node (or comma-separated set)"
	ti.CharLimit = 120
	ti.Width = 48

	items := catalog()
	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 60, 18)
	l.Title = "Algorithm Catalog"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	t := table.New(
		table.WithColumns([]table.Column{{Title: "Result", Width: 40}}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FFAA00")).
		Bold(false)
	t.SetStyles(s)

	sum, _ := eng.Summary()

	return model{
		eng:         eng,
		runner:      runner,
		currentView: dashboardView,
		algoList:    l,
		sourceInput: ti,
		resultTable: t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		summary:     sum,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.algoList.SetSize(msg.Width-8, msg.Height-14)

	case tickMsg:
		return m, tickCmd()

	case tea.KeyMsg:
		typing := m.sourceInput.Focused()

		switch {
		case key.Matches(msg, m.keys.Quit) && !typing:
			return m, tea.Quit

		case msg.Type == tea.KeyCtrlC:
			return m, tea.Quit

		case msg.Type == tea.KeyEsc && typing:
			m.sourceInput.Blur()

		case key.Matches(msg, m.keys.Tab) && !typing:
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab) && !typing:
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}

		case key.Matches(msg, m.keys.Source) && !typing && m.currentView == algorithmsView:
			m.sourceInput.Focus()
			return m, textinput.Blink

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case algorithmsView:
				m.sourceInput.Blur()
				m.runSelected()
			case batchView:
				m.runBatch()
			}
		}
	}

	switch m.currentView {
	case algorithmsView:
		if m.sourceInput.Focused() {
			m.sourceInput, cmd = m.sourceInput.Update(msg)
		} else {
			m.algoList, cmd = m.algoList.Update(msg)
		}
		cmds = append(cmds, cmd)
	case resultsView:
		m.resultTable, cmd = m.resultTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) runSelected() {
	item, ok := m.algoList.SelectedItem().(algoItem)
	if !ok {
		return
	}
	source := strings.TrimSpace(m.sourceInput.Value())
	if item.needsSource && source == "" {
		m.message = fmt.Sprintf("%s needs a source node: press 's' and type one", item.name)
		m.messageErr = true
		return
	}

	start := time.Now()
	value, err := item.run(m.eng, source)
	elapsed := time.Since(start)
	if err != nil {
		m.message = fmt.Sprintf("%s: %v", item.name, err)
		m.messageErr = true
		return
	}

	m.lastResult = item.name
	m.setResult(value)
	m.currentView = resultsView
	m.message = fmt.Sprintf("%s finished in %s", item.name, elapsed.Round(time.Microsecond))
	m.messageErr = false
}

func (m *model) runBatch() {
	jobs := []parallel.Job{
		{Name: "degree_centrality", Run: func(b engine.Backend) (any, error) { return b.DegreeCentrality() }},
		{Name: "pagerank", Run: func(b engine.Backend) (any, error) { return b.PageRank() }},
		{Name: "clustering", Run: func(b engine.Backend) (any, error) { return b.Clustering() }},
		{Name: "transitivity", Run: func(b engine.Backend) (any, error) { return b.Transitivity() }},
		{Name: "average_clustering", Run: func(b engine.Backend) (any, error) { return b.AverageClustering() }},
		{Name: "betweenness_centrality", Run: func(b engine.Backend) (any, error) { return b.BetweennessCentrality() }},
	}

	start := time.Now()
	m.batchRows = m.runner.Run(jobs)
	m.message = fmt.Sprintf("batch of %d finished in %s", len(jobs), time.Since(start).Round(time.Microsecond))
	m.messageErr = false
}

// setResult converts an algorithm result into table columns and rows.
func (m *model) setResult(value any) {
	var columns []table.Column
	var rows []table.Row

	switch v := value.(type) {
	case map[string]float64:
		columns = []table.Column{
			{Title: "Node", Width: 16},
			{Title: "Score", Width: 12},
			{Title: "", Width: 28},
		}
		max := 0.0
		for _, s := range v {
			if s > max {
				max = s
			}
		}
		for _, name := range keysByScore(v) {
			width := 0
			if max > 0 {
				width = int(24 * v[name] / max)
			}
			rows = append(rows, table.Row{name, fmt.Sprintf("%.6f", v[name]), strings.Repeat("█", width)})
		}

	case map[string]int:
		columns = []table.Column{
			{Title: "Node", Width: 16},
			{Title: "Count", Width: 12},
		}
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if v[names[i]] != v[names[j]] {
				return v[names[i]] > v[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			rows = append(rows, table.Row{name, strconv.Itoa(v[name])})
		}

	case map[string]bool:
		columns = []table.Column{{Title: "Node", Width: 24}}
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			rows = append(rows, table.Row{name})
		}

	case [][]string:
		columns = []table.Column{
			{Title: "Component", Width: 10},
			{Title: "Size", Width: 6},
			{Title: "Members", Width: 44},
		}
		for i, comp := range v {
			members := strings.Join(comp, ", ")
			if len(members) > 44 {
				members = members[:41] + "..."
			}
			rows = append(rows, table.Row{strconv.Itoa(i + 1), strconv.Itoa(len(comp)), members})
		}

	case hitsScores:
		columns = []table.Column{
			{Title: "Node", Width: 16},
			{Title: "Hub", Width: 12},
			{Title: "Authority", Width: 12},
		}
		for _, name := range keysByScore(v.auths) {
			rows = append(rows, table.Row{
				name,
				fmt.Sprintf("%.6f", v.hubs[name]),
				fmt.Sprintf("%.6f", v.auths[name]),
			})
		}

	case float64:
		columns = []table.Column{{Title: "Value", Width: 20}}
		rows = []table.Row{{fmt.Sprintf("%.6f", v)}}

	case int:
		columns = []table.Column{{Title: "Value", Width: 20}}
		rows = []table.Row{{strconv.Itoa(v)}}

	case bool:
		columns = []table.Column{{Title: "Verdict", Width: 20}}
		verdict := "not a dominating set"
		if v {
			verdict = "dominating set"
		}
		rows = []table.Row{{verdict}}

	default:
		columns = []table.Column{{Title: "Result", Width: 40}}
		rows = []table.Row{{fmt.Sprintf("%v", v)}}
	}

	m.resultTable.SetColumns(columns)
	m.resultTable.SetRows(rows)
}

func keysByScore(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔥 Semigraph - Graph Algorithm Explorer"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case algorithmsView:
		s.WriteString(m.renderAlgorithms())
	case resultsView:
		s.WriteString(m.renderResults())
	case batchView:
		s.WriteString(m.renderBatch())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Algorithms", "Results", "Batch"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	kind := "undirected"
	if m.summary.Directed {
		kind = "directed"
	}
	statsContent := fmt.Sprintf(`📊 Graph
━━━━━━━━━━━━━━━
Nodes:     %d
Entries:   %d
Kind:      %s
Uptime:    %s`,
		m.summary.Nodes,
		m.summary.Entries,
		kind,
		uptime,
	)

	quickActions := `⚡ Quick Actions
━━━━━━━━━━━━━━━
[Tab]    Next view
[Enter]  Run selection
[s]      Edit source node
[q]      Quit

🎯 Views
━━━━━━━━━━━━━━━
• Algorithms: pick and run
• Results: inspect scores
• Batch: run a whole panel`

	statsBox := statsBoxStyle.Render(statsContent)
	actionsBox := statsBoxStyle.Render(quickActions)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, actionsBox),
	)
}

func (m model) renderAlgorithms() string {
	var s strings.Builder

	s.WriteString(m.algoList.View())
	s.WriteString("\n\n")
	s.WriteString("Source: ")
	s.WriteString(m.sourceInput.View())

	return contentStyle.Render(s.String())
}

func (m model) renderResults() string {
	var s strings.Builder

	title := "Results"
	if m.lastResult != "" {
		title = "Results: " + m.lastResult
	}
	s.WriteString(headerStyle.Render(title))
	s.WriteString("\n\n")

	if len(m.resultTable.Rows()) == 0 {
		s.WriteString(helpStyle.Render("Nothing yet. Run an algorithm from the Algorithms view."))
	} else {
		s.WriteString(m.resultTable.View())
	}

	return contentStyle.Render(s.String())
}

func (m model) renderBatch() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Batch Panel"))
	s.WriteString("\n\n")

	if len(m.batchRows) == 0 {
		s.WriteString(helpStyle.Render("Press Enter to run the full panel concurrently."))
		return contentStyle.Render(s.String())
	}

	s.WriteString(fmt.Sprintf("%-26s %-10s %s\n", "Job", "Status", "Time"))
	s.WriteString("────────────────────────────────────────────────\n")
	for _, res := range m.batchRows {
		status := successStyle.Render("ok")
		if res.Err != nil {
			status = errorStyle.Render("failed")
		}
		s.WriteString(fmt.Sprintf("%-26s %-10s %s\n", res.Name, status, res.Elapsed.Round(time.Microsecond)))
	}

	return contentStyle.Render(s.String())
}

// sampleGraph is the network explored when no edge list is given.
func sampleGraph() *graph.Graph {
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

// loadEdgeList reads a graph from a text file. The first significant
// line may be "directed" or "undirected"; every other line is
// "from to [weight]". Lines starting with # are comments.
func loadEdgeList(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g := graph.NewGraph()
	first := true

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if first {
			first = false
			switch strings.ToLower(line) {
			case "directed":
				g = graph.NewDiGraph()
				continue
			case "undirected":
				continue
			}
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("malformed edge line %q", line)
		}
		weight := 1.0
		if len(fields) >= 3 {
			weight, err = strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("bad weight in line %q: %w", line, err)
			}
		}
		g.AddWeightedEdge(fields[0], fields[1], weight)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

func main() {
	// The alt screen owns the terminal; drop logs entirely.
	logging.SetDefaultLogger(logging.NewNopLogger())

	g := sampleGraph()
	if len(os.Args) > 1 {
		loaded, err := loadEdgeList(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load edge list: %v", err)
		}
		g = loaded
	}

	eng, err := engine.New(g, engine.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	runner, err := parallel.NewBatchRunner(eng, 4)
	if err != nil {
		log.Fatalf("Failed to create batch runner: %v", err)
	}
	defer runner.Close()

	p := tea.NewProgram(initialModel(eng, runner), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
