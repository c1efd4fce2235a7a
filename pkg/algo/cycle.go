package algo

import (
	"slices"

	"github.com/matzehuels/graphcore/pkg/store"
)

// HasCycle reports whether the graph contains a cycle.
func HasCycle(v store.View) bool { return FindCycle(v) != nil }

// FindCycle returns the first cycle found by a DFS over nodes in insertion
// order, as a node list whose first node is repeated at the end, or nil if
// the graph is acyclic.
//
// Directed graphs use white/gray/black coloring: an edge to a gray node is
// a back edge. In undirected graphs any edge other than the one used to
// reach a node closes a cycle.
func FindCycle(v store.View) []string {
	if !v.Directed() {
		return findUndirectedCycle(v)
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, v.NodeCount())
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, e := range v.OutEdges(id) {
			switch color[e.To] {
			case white:
				if dfs(e.To) {
					return true
				}
			case gray:
				start := slices.Index(stack, e.To)
				cycle = append(slices.Clone(stack[start:]), e.To)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range v.NodeIDs() {
		if color[id] == white && dfs(id) {
			return cycle
		}
	}
	return nil
}

func findUndirectedCycle(v store.View) []string {
	seen := make(map[string]bool, v.NodeCount())
	parent := make(map[string]string)
	var cycle []string

	var dfs func(id string, via store.Edge, root bool) bool
	dfs = func(id string, via store.Edge, root bool) bool {
		seen[id] = true
		skipped := root
		for _, e := range v.OutEdges(id) {
			if !skipped && e.To == via.From && e.Label == via.Label {
				skipped = true
				continue
			}
			if e.To == id {
				cycle = []string{id, id}
				return true
			}
			if seen[e.To] {
				cycle = []string{e.To}
				for x := id; x != e.To; x = parent[x] {
					cycle = append(cycle, x)
				}
				cycle = append(cycle, e.To)
				slices.Reverse(cycle)
				return true
			}
			parent[e.To] = id
			if dfs(e.To, e, false) {
				return true
			}
		}
		return false
	}

	for _, id := range v.NodeIDs() {
		if !seen[id] && dfs(id, store.Edge{}, true) {
			return cycle
		}
	}
	return nil
}

// TopologicalSort orders the nodes of a directed graph so that every edge
// points forward, using Kahn's algorithm. Nodes become ready in insertion
// order. A graph with a cycle yields a *CycleError naming one cycle.
func TopologicalSort(v store.View) ([]string, error) {
	if !v.Directed() {
		return nil, ErrUndirectedGraph
	}
	ids := v.NodeIDs()
	indeg := make(map[string]int, len(ids))
	var queue []string
	for _, id := range ids {
		indeg[id] = len(v.InEdges(id))
		if indeg[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, e := range v.OutEdges(id) {
			indeg[e.To]--
			if indeg[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(order) != len(ids) {
		return nil, &CycleError{Cycle: FindCycle(v)}
	}
	return order, nil
}
