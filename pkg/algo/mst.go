package algo

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/matzehuels/graphcore/pkg/store"
)

// MSTMethod selects the spanning tree algorithm.
type MSTMethod int

const (
	Kruskal MSTMethod = iota
	Prim
)

func (m MSTMethod) String() string {
	if m == Prim {
		return "prim"
	}
	return "kruskal"
}

// ParseMSTMethod parses "kruskal" or "prim".
func ParseMSTMethod(s string) (MSTMethod, error) {
	switch s {
	case "kruskal", "":
		return Kruskal, nil
	case "prim":
		return Prim, nil
	}
	return Kruskal, fmt.Errorf("unknown spanning tree method %q", s)
}

// SpanningTree is a minimum spanning forest: one tree per connected
// component.
type SpanningTree struct {
	Edges  []store.Edge
	Weight float64
}

// MinimumSpanningTree computes a minimum spanning forest of an undirected
// graph. Unweighted edges count as 1. Both methods return the same total
// weight; with equal weights the earlier-inserted edge wins.
func MinimumSpanningTree(v store.View, method MSTMethod) (SpanningTree, error) {
	if v.Directed() {
		return SpanningTree{}, ErrDirectedGraph
	}
	if method == Prim {
		return prim(v), nil
	}
	return kruskal(v), nil
}

func kruskal(v store.View) SpanningTree {
	edges := v.Edges()
	slices.SortStableFunc(edges, func(a, b store.Edge) int {
		switch {
		case a.W() < b.W():
			return -1
		case a.W() > b.W():
			return 1
		}
		return 0
	})

	parent := make(map[string]string)
	var find func(x string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok || p == x {
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}

	var t SpanningTree
	for _, e := range edges {
		a, b := find(e.From), find(e.To)
		if a == b {
			continue
		}
		parent[a] = b
		t.Edges = append(t.Edges, e)
		t.Weight += e.W()
	}
	return t
}

type primItem struct {
	edge store.Edge
	seq  int
}

type edgeQueue []primItem

func (q edgeQueue) Len() int { return len(q) }
func (q edgeQueue) Less(i, j int) bool {
	if q[i].edge.W() != q[j].edge.W() {
		return q[i].edge.W() < q[j].edge.W()
	}
	return q[i].seq < q[j].seq
}
func (q edgeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *edgeQueue) Push(x any)   { *q = append(*q, x.(primItem)) }
func (q *edgeQueue) Pop() any {
	old := *q
	item := old[len(old)-1]
	*q = old[:len(old)-1]
	return item
}

func prim(v store.View) SpanningTree {
	in := make(map[string]bool, v.NodeCount())
	var t SpanningTree
	seq := 0

	for _, root := range v.NodeIDs() {
		if in[root] {
			continue
		}
		in[root] = true
		q := &edgeQueue{}
		push := func(id string) {
			for _, e := range v.OutEdges(id) {
				if !in[e.To] {
					seq++
					heap.Push(q, primItem{edge: e, seq: seq})
				}
			}
		}
		push(root)
		for q.Len() > 0 {
			e := heap.Pop(q).(primItem).edge
			if in[e.To] {
				continue
			}
			in[e.To] = true
			t.Edges = append(t.Edges, e)
			t.Weight += e.W()
			push(e.To)
		}
	}
	return t
}
