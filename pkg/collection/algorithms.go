package collection

import (
	"errors"

	"github.com/matzehuels/graphcore/pkg/algo"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/store"
)

// algoError attaches an error code to an algorithm failure. The original
// error stays in the chain for errors.Is and algo.AsCycleError.
func algoError(op string, err error) error {
	if err == nil {
		return nil
	}
	code := gcerrors.ErrCodeInternal
	switch {
	case errors.Is(err, algo.ErrNodeNotFound):
		code = gcerrors.ErrCodeNotFound
	case errors.Is(err, algo.ErrUnreachable):
		code = gcerrors.ErrCodeUnreachable
	case errors.Is(err, algo.ErrNegativeWeight):
		code = gcerrors.ErrCodeNegativeWeight
	case errors.Is(err, algo.ErrUndirectedGraph), errors.Is(err, algo.ErrDirectedGraph):
		code = gcerrors.ErrCodeUnsupported
	case algo.AsCycleError(err) != nil:
		code = gcerrors.ErrCodeCycleDetected
	}
	return gcerrors.Wrap(code, err, "%s", op)
}

// BFS returns nodes reachable from start in breadth-first order. visit may
// be nil.
func (g *Graph) BFS(start string, visit algo.Visitor) ([]string, error) {
	order, err := algo.BFS(g.store, start, visit)
	return order, algoError("bfs", err)
}

// DFS returns nodes reachable from start in depth-first pre-order. visit
// may be nil.
func (g *Graph) DFS(start string, visit algo.Visitor) ([]string, error) {
	order, err := algo.DFS(g.store, start, visit)
	return order, algoError("dfs", err)
}

// ShortestPath finds a path by fewest edges, or by total weight when
// weighted is set.
func (g *Graph) ShortestPath(from, to string, weighted bool) (algo.Path, error) {
	p, err := algo.ShortestPath(g.store, from, to, weighted)
	return p, algoError("shortest_path", err)
}

// HasCycle reports whether the graph contains a cycle.
func (g *Graph) HasCycle() bool { return algo.HasCycle(g.store) }

// FindCycle returns the first cycle found, first node repeated at the end,
// or nil.
func (g *Graph) FindCycle() []string { return algo.FindCycle(g.store) }

// TopologicalSort orders nodes so every edge points forward.
func (g *Graph) TopologicalSort() ([]string, error) {
	order, err := algo.TopologicalSort(g.store)
	return order, algoError("topological_sort", err)
}

// ConnectedComponents returns weakly connected components.
func (g *Graph) ConnectedComponents() [][]string { return algo.ConnectedComponents(g.store) }

// StronglyConnectedComponents returns strongly connected components.
func (g *Graph) StronglyConnectedComponents() [][]string {
	return algo.StronglyConnectedComponents(g.store)
}

// MinimumSpanningTree computes a minimum spanning forest of an undirected
// graph.
func (g *Graph) MinimumSpanningTree(method algo.MSTMethod) (algo.SpanningTree, error) {
	t, err := algo.MinimumSpanningTree(g.store, method)
	return t, algoError("minimum_spanning_tree", err)
}

// DegreeCentrality returns normalized degree centrality per node.
func (g *Graph) DegreeCentrality() map[string]float64 { return algo.DegreeCentrality(g.store) }

// BetweennessCentrality returns betweenness centrality per node.
func (g *Graph) BetweennessCentrality() map[string]float64 {
	return algo.BetweennessCentrality(g.store)
}

// ClosenessCentrality returns closeness centrality per node.
func (g *Graph) ClosenessCentrality() map[string]float64 {
	return algo.ClosenessCentrality(g.store)
}

// Stats summarizes a graph for tooling.
type Stats struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Type      Type           `json:"type"`
	Nodes     int            `json:"nodes"`
	Edges     int            `json:"edges"`
	Roots     []string       `json:"roots"`
	Leaves    []string       `json:"leaves"`
	Depth     int            `json:"depth"` // -1 when cyclic or undirected
	Labels    map[string]int `json:"labels"`
	Rules     []string       `json:"rules"`
	Behaviors []string       `json:"behaviors"`
	Indexes   []string       `json:"indexes"`
}

// Stats computes a summary of the committed state. Roots, leaves and depth
// follow the hierarchy edges.
func (g *Graph) Stats() Stats {
	h := rules.Hierarchy(g.store, g.rules.Hierarchy())
	depth, err := algo.Depth(h)
	if err != nil {
		depth = -1
	}
	return Stats{
		ID:        g.id.String(),
		Kind:      g.kind,
		Type:      g.typ,
		Nodes:     g.store.NodeCount(),
		Edges:     g.store.EdgeCount(),
		Roots:     store.Roots(h),
		Leaves:    algo.Leaves(h),
		Depth:     depth,
		Labels:    g.store.LabelCounts(),
		Rules:     g.rules.Names(),
		Behaviors: g.behaviors.Names(),
		Indexes:   g.store.Indexes(),
	}
}
