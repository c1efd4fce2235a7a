package algo

import (
	"container/heap"
	"slices"

	"github.com/matzehuels/graphcore/pkg/store"
)

// Path is a route through the graph.
type Path struct {
	Nodes    []string
	Distance float64
}

// Len returns the number of edges on the path.
func (p Path) Len() int { return max(len(p.Nodes)-1, 0) }

// ShortestPath finds a path from → to.
//
// Unweighted search uses BFS: the path with the fewest edges wins, ties are
// broken by traversal order, and Distance is the edge count. Weighted search
// uses Dijkstra over edge weights (unweighted edges count as 1) and returns
// ErrNegativeWeight if any edge weight is negative. ErrUnreachable is
// returned when no path exists.
func ShortestPath(v store.View, from, to string, weighted bool) (Path, error) {
	if !v.HasNode(from) || !v.HasNode(to) {
		return Path{}, ErrNodeNotFound
	}
	if from == to {
		return Path{Nodes: []string{from}}, nil
	}
	if weighted {
		return dijkstra(v, from, to)
	}

	prev := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range v.OutEdges(id) {
			if _, seen := prev[e.To]; seen {
				continue
			}
			prev[e.To] = id
			if e.To == to {
				nodes := walkBack(prev, from, to)
				return Path{Nodes: nodes, Distance: float64(len(nodes) - 1)}, nil
			}
			queue = append(queue, e.To)
		}
	}
	return Path{}, ErrUnreachable
}

func walkBack(prev map[string]string, from, to string) []string {
	nodes := []string{to}
	for id := to; id != from; {
		id = prev[id]
		nodes = append(nodes, id)
	}
	slices.Reverse(nodes)
	return nodes
}

type pqItem struct {
	id   string
	dist float64
	seq  int
}

// distQueue is a min-heap on distance; equal distances pop in push order.
type distQueue []pqItem

func (q distQueue) Len() int { return len(q) }
func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)   { *q = append(*q, x.(pqItem)) }
func (q *distQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

// distances runs Dijkstra from source and returns the settled distance and
// predecessor of every reachable node. If target is non-empty the search
// stops once it is settled.
func distances(v store.View, source, target string) (map[string]float64, map[string]string, error) {
	for _, e := range v.Edges() {
		if e.W() < 0 {
			return nil, nil, ErrNegativeWeight
		}
	}

	dist := map[string]float64{source: 0}
	prev := make(map[string]string)
	done := make(map[string]bool)
	seq := 0
	q := &distQueue{{id: source}}

	for q.Len() > 0 {
		item := heap.Pop(q).(pqItem)
		if done[item.id] {
			continue
		}
		done[item.id] = true
		if item.id == target {
			break
		}
		for _, e := range v.OutEdges(item.id) {
			if done[e.To] {
				continue
			}
			nd := item.dist + e.W()
			if d, ok := dist[e.To]; !ok || nd < d {
				dist[e.To] = nd
				prev[e.To] = item.id
				seq++
				heap.Push(q, pqItem{id: e.To, dist: nd, seq: seq})
			}
		}
	}
	for id := range dist {
		if !done[id] {
			delete(dist, id)
		}
	}
	return dist, prev, nil
}

func dijkstra(v store.View, from, to string) (Path, error) {
	dist, prev, err := distances(v, from, to)
	if err != nil {
		return Path{}, err
	}
	d, ok := dist[to]
	if !ok {
		return Path{}, ErrUnreachable
	}
	return Path{Nodes: walkBack(prev, from, to), Distance: d}, nil
}

// PathDistance sums the weights along nodes, taking the lightest edge
// between each consecutive pair. It reports false if a hop has no edge.
func PathDistance(v store.View, nodes []string) (float64, bool) {
	total := 0.0
	for i := 1; i < len(nodes); i++ {
		best, found := 0.0, false
		for _, e := range v.OutEdges(nodes[i-1]) {
			if e.To == nodes[i] && (!found || e.W() < best) {
				best, found = e.W(), true
			}
		}
		if !found {
			return 0, false
		}
		total += best
	}
	return total, true
}

// AllPaths enumerates simple paths from → to in DFS order. At most limit
// paths are returned; limit <= 0 means no limit.
func AllPaths(v store.View, from, to string, limit int) ([][]string, error) {
	if !v.HasNode(from) || !v.HasNode(to) {
		return nil, ErrNodeNotFound
	}
	var paths [][]string
	onPath := map[string]bool{}
	path := []string{}

	var walk func(id string) bool
	walk = func(id string) bool {
		path = append(path, id)
		onPath[id] = true
		defer func() {
			path = path[:len(path)-1]
			onPath[id] = false
		}()
		if id == to {
			paths = append(paths, slices.Clone(path))
			return limit <= 0 || len(paths) < limit
		}
		for _, next := range store.Successors(v, id) {
			if onPath[next] {
				continue
			}
			if !walk(next) {
				return false
			}
		}
		return true
	}
	walk(from)
	return paths, nil
}
