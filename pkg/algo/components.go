package algo

import (
	"github.com/matzehuels/graphcore/pkg/store"
)

// ConnectedComponents partitions the nodes into connected components,
// ignoring edge direction (weak connectivity for directed graphs).
// Components are ordered by their earliest node; members are listed in
// insertion order.
func ConnectedComponents(v store.View) [][]string {
	ids := v.NodeIDs()
	comp := make(map[string]int, len(ids))
	n := 0
	for _, id := range ids {
		if _, ok := comp[id]; ok {
			continue
		}
		comp[id] = n
		queue := []string{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range store.Neighbors(v, cur, store.Both) {
				if _, ok := comp[next]; !ok {
					comp[next] = n
					queue = append(queue, next)
				}
			}
		}
		n++
	}

	groups := make([][]string, n)
	for _, id := range ids {
		groups[comp[id]] = append(groups[comp[id]], id)
	}
	return groups
}

// StronglyConnectedComponents returns the strongly connected components of
// a directed graph using an iterative Tarjan's algorithm, so deep graphs do
// not grow the goroutine stack. Components come out in reverse topological
// order of the condensation; members are listed in discovery order. For
// undirected graphs it equals [ConnectedComponents].
func StronglyConnectedComponents(v store.View) [][]string {
	if !v.Directed() {
		return ConnectedComponents(v)
	}

	index := 0
	nodeIndex := make(map[string]int)
	lowLink := make(map[string]int)
	onStack := make(map[string]bool)
	var sccStack []string
	var sccs [][]string

	type frame struct {
		id    string
		edges []store.Edge
		next  int
		child string
	}

	enter := func(id string) frame {
		nodeIndex[id] = index
		lowLink[id] = index
		index++
		sccStack = append(sccStack, id)
		onStack[id] = true
		return frame{id: id, edges: v.OutEdges(id)}
	}

	for _, root := range v.NodeIDs() {
		if _, visited := nodeIndex[root]; visited {
			continue
		}
		calls := []frame{enter(root)}
		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			if f.child != "" {
				lowLink[f.id] = min(lowLink[f.id], lowLink[f.child])
				f.child = ""
			}

			pushed := false
			for f.next < len(f.edges) {
				to := f.edges[f.next].To
				f.next++
				if _, visited := nodeIndex[to]; !visited {
					f.child = to
					calls = append(calls, enter(to))
					pushed = true
					break
				}
				if onStack[to] {
					lowLink[f.id] = min(lowLink[f.id], nodeIndex[to])
				}
			}
			if pushed {
				continue
			}

			if lowLink[f.id] == nodeIndex[f.id] {
				var scc []string
				for {
					w := sccStack[len(sccStack)-1]
					sccStack = sccStack[:len(sccStack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == f.id {
						break
					}
				}
				for i, j := 0, len(scc)-1; i < j; i, j = i+1, j-1 {
					scc[i], scc[j] = scc[j], scc[i]
				}
				sccs = append(sccs, scc)
			}
			calls = calls[:len(calls)-1]
		}
	}
	return sccs
}
