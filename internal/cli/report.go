package cli

import (
	"slices"
	"strings"

	"github.com/matzehuels/graphcore/pkg/algo"
	"github.com/matzehuels/graphcore/pkg/collection"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
)

// Report is the result of one algorithm run, as printed by "algo --json"
// and served by /algo/{name}.
type Report struct {
	Algorithm string   `json:"algorithm"`
	Args      []string `json:"args,omitempty"`
	Result    any      `json:"result"`
}

type pathResult struct {
	Nodes    []string `json:"nodes"`
	Distance float64  `json:"distance"`
	Hops     int      `json:"hops"`
}

type cycleResult struct {
	HasCycle bool     `json:"has_cycle"`
	Cycle    []string `json:"cycle,omitempty"`
}

type edgeRef struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

type treeResult struct {
	Edges  []edgeRef `json:"edges"`
	Weight float64   `json:"weight"`
}

// algorithm is one entry of the algo command table.
type algorithm struct {
	name  string
	usage string
	args  int
	run   func(g *collection.Graph, args []string) (any, error)
}

var algorithms = []algorithm{
	{"bfs", "bfs <start>", 1, func(g *collection.Graph, a []string) (any, error) { return g.BFS(a[0], nil) }},
	{"dfs", "dfs <start>", 1, func(g *collection.Graph, a []string) (any, error) { return g.DFS(a[0], nil) }},
	{"shortest_path", "shortest_path <from> <to>", 2, func(g *collection.Graph, a []string) (any, error) {
		return shortestPath(g, a, false)
	}},
	{"dijkstra", "dijkstra <from> <to>", 2, func(g *collection.Graph, a []string) (any, error) {
		return shortestPath(g, a, true)
	}},
	{"topological_sort", "topological_sort", 0, func(g *collection.Graph, _ []string) (any, error) {
		return g.TopologicalSort()
	}},
	{"cycle", "cycle", 0, func(g *collection.Graph, _ []string) (any, error) {
		c := g.FindCycle()
		return cycleResult{HasCycle: c != nil, Cycle: c}, nil
	}},
	{"components", "components", 0, func(g *collection.Graph, _ []string) (any, error) {
		return g.ConnectedComponents(), nil
	}},
	{"scc", "scc", 0, func(g *collection.Graph, _ []string) (any, error) {
		return g.StronglyConnectedComponents(), nil
	}},
	{"mst", "mst [kruskal|prim]", -1, func(g *collection.Graph, a []string) (any, error) {
		method := algo.Kruskal
		if len(a) > 0 {
			var err error
			if method, err = algo.ParseMSTMethod(a[0]); err != nil {
				return nil, err
			}
		}
		t, err := g.MinimumSpanningTree(method)
		if err != nil {
			return nil, err
		}
		out := treeResult{Edges: make([]edgeRef, len(t.Edges)), Weight: t.Weight}
		for i, e := range t.Edges {
			out.Edges[i] = edgeRef{From: e.From, To: e.To, Weight: e.W()}
		}
		return out, nil
	}},
	{"degree", "degree", 0, func(g *collection.Graph, _ []string) (any, error) { return g.DegreeCentrality(), nil }},
	{"betweenness", "betweenness", 0, func(g *collection.Graph, _ []string) (any, error) {
		return g.BetweennessCentrality(), nil
	}},
	{"closeness", "closeness", 0, func(g *collection.Graph, _ []string) (any, error) {
		return g.ClosenessCentrality(), nil
	}},
	{"stats", "stats", 0, func(g *collection.Graph, _ []string) (any, error) { return g.Stats(), nil }},
}

func shortestPath(g *collection.Graph, a []string, weighted bool) (any, error) {
	p, err := g.ShortestPath(a[0], a[1], weighted)
	if err != nil {
		return nil, err
	}
	return pathResult{Nodes: p.Nodes, Distance: p.Distance, Hops: p.Len()}, nil
}

func findAlgorithm(name string) (algorithm, bool) {
	i := slices.IndexFunc(algorithms, func(a algorithm) bool { return a.name == name })
	if i < 0 {
		return algorithm{}, false
	}
	return algorithms[i], true
}

func algorithmNames() []string {
	names := make([]string, len(algorithms))
	for i, a := range algorithms {
		names[i] = a.name
	}
	return names
}

// runAlgorithm runs the named algorithm on g.
func runAlgorithm(g *collection.Graph, name string, args []string) (Report, error) {
	a, ok := findAlgorithm(name)
	if !ok {
		return Report{}, gcerrors.New(gcerrors.ErrCodeNotFound, "unknown algorithm %q (available: %s)", name, strings.Join(algorithmNames(), ", "))
	}
	if a.args >= 0 && len(args) != a.args {
		return Report{}, gcerrors.New(gcerrors.ErrCodeInvalidInput, "usage: %s", a.usage)
	}
	res, err := a.run(g, args)
	if err != nil {
		return Report{}, err
	}
	return Report{Algorithm: name, Args: args, Result: res}, nil
}
