package algo

import "github.com/matzehuels/graphcore/pkg/store"

// BFS walks the graph breadth-first from start and returns the visitation
// order. Neighbors are expanded in edge insertion order. If visit is non-nil
// it is called for each node as it is visited; returning false stops the walk
// and the order so far is returned.
func BFS(v store.View, start string, visit Visitor) ([]string, error) {
	if !v.HasNode(start) {
		return nil, ErrNodeNotFound
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	var order []string

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		if visit != nil && !visit(id) {
			break
		}
		for _, e := range v.OutEdges(id) {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return order, nil
}

// DFS walks the graph depth-first (pre-order) from start and returns the
// visitation order. Visitor semantics match [BFS].
func DFS(v store.View, start string, visit Visitor) ([]string, error) {
	if !v.HasNode(start) {
		return nil, ErrNodeNotFound
	}
	seen := make(map[string]bool)
	var order []string
	stopped := false

	var walk func(id string)
	walk = func(id string) {
		seen[id] = true
		order = append(order, id)
		if visit != nil && !visit(id) {
			stopped = true
			return
		}
		for _, e := range v.OutEdges(id) {
			if stopped {
				return
			}
			if !seen[e.To] {
				walk(e.To)
			}
		}
	}
	walk(start)
	return order, nil
}

// Reachable returns the set of nodes reachable from start, start included.
func Reachable(v store.View, start string) map[string]bool {
	order, err := BFS(v, start, nil)
	if err != nil {
		return nil
	}
	set := make(map[string]bool, len(order))
	for _, id := range order {
		set[id] = true
	}
	return set
}
