package rules

import (
	"fmt"
	"slices"

	"github.com/matzehuels/graphcore/pkg/algo"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Findings lists every individual violation of s in v, one stable string
// per offending node, edge or component. It is empty exactly when Check
// passes. The same violation renders the same string on any state, so two
// states can be compared finding by finding.
//
// A Custom rule only reports its failure reason, so its single finding is
// that reason.
func (s Spec) Findings(v store.View, hierarchy []string) []string {
	var out []string
	add := func(format string, args ...any) { out = append(out, fmt.Sprintf(format, args...)) }

	switch s.Kind {
	case KindNoCycles:
		for _, id := range cyclicNodes(v) {
			add("node %q is on a cycle", id)
		}
	case KindAcyclicDirected:
		if !v.Directed() {
			add("graph is undirected")
			break
		}
		for _, id := range cyclicNodes(v) {
			add("node %q is on a cycle", id)
		}
	case KindSingleRoot:
		out = singleRootFindings(Hierarchy(v, hierarchy))
	case KindMaxChildren:
		h := Hierarchy(v, hierarchy)
		for _, id := range h.NodeIDs() {
			for _, c := range excess(store.Successors(h, id), s.N) {
				add("node %q child %q exceeds max %d", id, c, s.N)
			}
		}
	case KindMaxParents:
		h := Hierarchy(v, hierarchy)
		for _, id := range h.NodeIDs() {
			for _, p := range excess(store.Predecessors(h, id), s.N) {
				add("node %q parent %q exceeds max %d", id, p, s.N)
			}
		}
	case KindNoSelfLoops:
		for _, e := range v.Edges() {
			if e.From == e.To {
				add("self loop on %q", e.From)
			}
		}
	case KindConnected:
		if cc := algo.ConnectedComponents(v); len(cc) > 1 {
			for _, c := range cc {
				add("component at %q", c[0])
			}
		}
	case KindBinaryOrdered:
		out = binaryOrderedFindings(Hierarchy(v, hierarchy))
	case KindUniqueValues:
		seen := make(map[string]string, v.NodeCount())
		for _, id := range v.NodeIDs() {
			n, _ := v.Node(id)
			k := n.Value.Key()
			if other, dup := seen[k]; dup {
				add("node %q duplicates %q", id, other)
				continue
			}
			seen[k] = id
		}
	case KindMaxNodes:
		for _, id := range excess(v.NodeIDs(), s.N) {
			add("node %q exceeds max %d nodes", id, s.N)
		}
	case KindEdgeLabels:
		for _, e := range v.Edges() {
			if _, ok := slices.BinarySearch(s.Labels, e.Label); !ok {
				add("%s has label %q", edgeName(e), e.Label)
			}
		}
	case KindWeighted:
		for _, e := range v.Edges() {
			if !e.HasWeight() {
				add("%s has no weight", edgeName(e))
			}
		}
	case KindNonNegativeWeights:
		for _, e := range v.Edges() {
			if e.W() < 0 {
				add("%s has negative weight", edgeName(e))
			}
		}
	case KindCustom:
		if r := s.Check(v, hierarchy); !r.Passed {
			add("%s", r.Reason)
		}
	}
	return out
}

// Introduced returns the findings of s on proposed that are absent on base.
func (s Spec) Introduced(base, proposed store.View, hierarchy []string) []string {
	before := s.Findings(base, hierarchy)
	var fresh []string
	for _, f := range s.Findings(proposed, hierarchy) {
		if !slices.Contains(before, f) {
			fresh = append(fresh, f)
		}
	}
	return fresh
}

func excess(ids []string, n int) []string {
	if len(ids) <= n {
		return nil
	}
	return ids[n:]
}

func edgeName(e store.Edge) string {
	if e.Label == "" {
		return fmt.Sprintf("edge %s -> %s", e.From, e.To)
	}
	return fmt.Sprintf("edge %s -%s-> %s", e.From, e.Label, e.To)
}

// cyclicNodes returns the nodes lying on at least one cycle, in insertion
// order. Directed graphs use strongly connected components; undirected
// graphs mark both ends of every edge that is not a bridge.
func cyclicNodes(v store.View) []string {
	onCycle := make(map[string]bool)
	if v.Directed() {
		for _, scc := range algo.StronglyConnectedComponents(v) {
			if len(scc) > 1 {
				for _, id := range scc {
					onCycle[id] = true
				}
			}
		}
		for _, e := range v.Edges() {
			if e.From == e.To {
				onCycle[e.From] = true
			}
		}
	} else {
		markUndirectedCycles(v, onCycle)
	}

	var ids []string
	for _, id := range v.NodeIDs() {
		if onCycle[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func markUndirectedCycles(v store.View, onCycle map[string]bool) {
	disc := make(map[string]int, v.NodeCount())
	low := make(map[string]int, v.NodeCount())
	timer := 0

	var dfs func(id, parent string, root bool)
	dfs = func(id, parent string, root bool) {
		timer++
		disc[id], low[id] = timer, timer
		skipped := root
		for _, e := range v.OutEdges(id) {
			next := e.Other(id)
			if next == id {
				onCycle[id] = true
				continue
			}
			if !skipped && next == parent {
				skipped = true
				continue
			}
			if _, seen := disc[next]; seen {
				low[id] = min(low[id], disc[next])
				onCycle[id], onCycle[next] = true, true
				continue
			}
			dfs(next, id, false)
			low[id] = min(low[id], low[next])
			if low[next] <= disc[id] {
				onCycle[id], onCycle[next] = true, true
			}
		}
	}
	for _, id := range v.NodeIDs() {
		if _, seen := disc[id]; !seen {
			dfs(id, "", true)
		}
	}
}

func singleRootFindings(v store.View) []string {
	if v.NodeCount() == 0 {
		return nil
	}
	var out []string
	if !v.Directed() {
		if cc := algo.ConnectedComponents(v); len(cc) > 1 {
			for _, c := range cc {
				out = append(out, fmt.Sprintf("component at %q", c[0]))
			}
		}
		return out
	}
	roots := store.Roots(v)
	switch len(roots) {
	case 0:
		return []string{"no root"}
	case 1:
		return nil
	}
	for _, r := range roots {
		out = append(out, fmt.Sprintf("root %q", r))
	}
	return out
}

func binaryOrderedFindings(v store.View) []string {
	var out []string
	for _, id := range v.NodeIDs() {
		var left, right int
		for _, e := range v.OutEdges(id) {
			switch e.Label {
			case LabelLeft:
				left++
			case LabelRight:
				right++
			}
		}
		if left > 1 || right > 1 {
			out = append(out, fmt.Sprintf("node %q has %d left and %d right children", id, left, right))
		}
	}

	type bound struct {
		v   value.Value
		set bool
	}
	visited := make(map[string]bool)
	var walk func(id string, lo, hi bound)
	walk = func(id string, lo, hi bound) {
		if visited[id] {
			return
		}
		visited[id] = true
		n, _ := v.Node(id)
		if (lo.set && value.Less(n.Value, lo.v)) || (hi.set && !value.Less(n.Value, hi.v)) {
			out = append(out, fmt.Sprintf("node %q value %s is out of order", id, n.Value))
		}
		for _, e := range v.OutEdges(id) {
			switch e.Label {
			case LabelLeft:
				walk(e.To, lo, bound{n.Value, true})
			case LabelRight:
				walk(e.To, bound{n.Value, true}, hi)
			}
		}
	}
	for _, root := range store.Roots(v) {
		walk(root, bound{}, bound{})
	}
	return out
}
