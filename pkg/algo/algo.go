// Package algo implements read-only graph algorithms over a [store.View].
//
// Every function iterates nodes and edges in insertion order, so results are
// reproducible: ties in traversal, shortest paths and topological order are
// always broken the same way for the same sequence of mutations.
//
// Algorithms never mutate their input and hold no state between calls, so
// they may run concurrently on a View that is not being mutated.
//
// # Catalog
//
//	Traversal     BFS, DFS, Reachable
//	Paths         ShortestPath, PathDistance, AllPaths
//	Structure     HasCycle, FindCycle, TopologicalSort, Roots, Leaves, Depth
//	Components    ConnectedComponents, StronglyConnectedComponents
//	Spanning      MinimumSpanningTree (Kruskal, Prim)
//	Centrality    DegreeCentrality, BetweennessCentrality, ClosenessCentrality
package algo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNodeNotFound is returned when a start or target node does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrUnreachable is returned by [ShortestPath] when no path exists.
	ErrUnreachable = errors.New("target unreachable")

	// ErrNegativeWeight is returned by weighted shortest paths when an edge
	// has a negative weight.
	ErrNegativeWeight = errors.New("negative edge weight")

	// ErrUndirectedGraph is returned by algorithms that only make sense on
	// directed graphs, such as topological sorting.
	ErrUndirectedGraph = errors.New("algorithm requires a directed graph")

	// ErrDirectedGraph is returned by algorithms that require an undirected
	// graph, such as minimum spanning trees.
	ErrDirectedGraph = errors.New("algorithm requires an undirected graph")
)

// CycleError reports a cycle found while an acyclic graph was required.
type CycleError struct {
	// Cycle lists the node IDs on the cycle, first node repeated at the end.
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "graph contains a cycle"
	}
	return fmt.Sprintf("graph contains a cycle: %s", strings.Join(e.Cycle, " -> "))
}

// AsCycleError returns the *CycleError in err's chain, or nil.
func AsCycleError(err error) *CycleError {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// Visitor is called for every visited node. Returning false stops the walk.
type Visitor func(id string) bool
