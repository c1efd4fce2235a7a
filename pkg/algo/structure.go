package algo

import "github.com/matzehuels/graphcore/pkg/store"

// Roots returns nodes with no incoming edges in insertion order.
func Roots(v store.View) []string { return store.Roots(v) }

// Leaves returns nodes with no outgoing edges in insertion order.
// In undirected graphs these are the nodes of degree at most one.
func Leaves(v store.View) []string {
	limit := 0
	if !v.Directed() {
		limit = 1
	}
	var leaves []string
	for _, id := range v.NodeIDs() {
		if store.OutDegree(v, id) <= limit {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Depth returns the length of the longest path from any root, in edges.
// Returns a *CycleError if the graph is cyclic and ErrUndirectedGraph for
// undirected graphs.
func Depth(v store.View) (int, error) {
	order, err := TopologicalSort(v)
	if err != nil {
		return 0, err
	}
	level := make(map[string]int, len(order))
	deepest := 0
	for _, id := range order {
		for _, e := range v.OutEdges(id) {
			if level[id]+1 > level[e.To] {
				level[e.To] = level[id] + 1
				deepest = max(deepest, level[e.To])
			}
		}
	}
	return deepest, nil
}

// NodeDepth returns the distance in edges from root to id along outgoing
// edges.
func NodeDepth(v store.View, root, id string) (int, error) {
	p, err := ShortestPath(v, root, id, false)
	if err != nil {
		return 0, err
	}
	return p.Len(), nil
}
