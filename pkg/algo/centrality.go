package algo

import (
	"github.com/matzehuels/graphcore/pkg/store"
)

// DegreeCentrality returns each node's degree divided by n-1. For directed
// graphs the degree is in-degree plus out-degree. Graphs with fewer than two
// nodes score 0.
func DegreeCentrality(v store.View) map[string]float64 {
	ids := v.NodeIDs()
	scores := make(map[string]float64, len(ids))
	if len(ids) < 2 {
		for _, id := range ids {
			scores[id] = 0
		}
		return scores
	}
	norm := float64(len(ids) - 1)
	for _, id := range ids {
		scores[id] = float64(store.Degree(v, id)) / norm
	}
	return scores
}

// BetweennessCentrality computes unnormalized shortest-path betweenness
// with Brandes' algorithm over unweighted hops. In undirected graphs each
// pair is counted once.
func BetweennessCentrality(v store.View) map[string]float64 {
	ids := v.NodeIDs()
	cb := make(map[string]float64, len(ids))
	for _, id := range ids {
		cb[id] = 0
	}

	for _, s := range ids {
		var stack []string
		preds := make(map[string][]string)
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}
		queue := []string{s}

		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			stack = append(stack, u)
			for _, w := range store.Successors(v, u) {
				if w == u {
					continue
				}
				if _, seen := dist[w]; !seen {
					dist[w] = dist[u] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[u]+1 {
					sigma[w] += sigma[u]
					preds[w] = append(preds[w], u)
				}
			}
		}

		delta := make(map[string]float64, len(stack))
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, u := range preds[w] {
				delta[u] += sigma[u] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if !v.Directed() {
		for id := range cb {
			cb[id] /= 2
		}
	}
	return cb
}

// ClosenessCentrality returns, for each node, the reachable-node count
// divided by the sum of hop distances to them, scaled by the reachable
// fraction of the graph (Wasserman-Faust). Distances follow outgoing edges.
// Nodes that reach nothing score 0.
func ClosenessCentrality(v store.View) map[string]float64 {
	ids := v.NodeIDs()
	n := len(ids)
	scores := make(map[string]float64, n)

	for _, s := range ids {
		dist := map[string]int{s: 0}
		queue := []string{s}
		total := 0
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, e := range v.OutEdges(u) {
				if _, seen := dist[e.To]; seen {
					continue
				}
				dist[e.To] = dist[u] + 1
				total += dist[e.To]
				queue = append(queue, e.To)
			}
		}
		reached := len(dist) - 1
		if reached == 0 || total == 0 {
			scores[s] = 0
			continue
		}
		scores[s] = float64(reached) / float64(total) * float64(reached) / float64(n-1)
	}
	return scores
}
