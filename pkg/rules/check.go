package rules

import (
	"slices"
	"strings"

	"github.com/matzehuels/graphcore/pkg/algo"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// BST child labels checked by binary_ordered.
const (
	LabelLeft  = "left"
	LabelRight = "right"
)

// Check evaluates s against v. Rules about roots, parents and children
// see only hierarchy edges: hierarchy lists the counted labels, and an empty
// list counts every edge.
func (s Spec) Check(v store.View, hierarchy []string) Result {
	switch s.Kind {
	case KindNoCycles:
		if c := algo.FindCycle(v); c != nil {
			return Fail("cycle %s", strings.Join(c, " -> "))
		}
	case KindAcyclicDirected:
		if !v.Directed() {
			return Fail("graph is undirected")
		}
		if c := algo.FindCycle(v); c != nil {
			return Fail("cycle %s", strings.Join(c, " -> "))
		}
	case KindSingleRoot:
		return checkSingleRoot(Hierarchy(v, hierarchy))
	case KindMaxChildren:
		h := Hierarchy(v, hierarchy)
		for _, id := range h.NodeIDs() {
			if n := len(store.Successors(h, id)); n > s.N {
				return Fail("node %q has %d children, max %d", id, n, s.N)
			}
		}
	case KindMaxParents:
		h := Hierarchy(v, hierarchy)
		for _, id := range h.NodeIDs() {
			if n := len(store.Predecessors(h, id)); n > s.N {
				return Fail("node %q has %d parents, max %d", id, n, s.N)
			}
		}
	case KindNoSelfLoops:
		for _, e := range v.Edges() {
			if e.From == e.To {
				return Fail("self loop on %q", e.From)
			}
		}
	case KindConnected:
		if cc := algo.ConnectedComponents(v); len(cc) > 1 {
			return Fail("graph has %d disconnected components", len(cc))
		}
	case KindBinaryOrdered:
		return checkBinaryOrdered(Hierarchy(v, hierarchy))
	case KindUniqueValues:
		seen := make(map[string]string, v.NodeCount())
		for _, id := range v.NodeIDs() {
			n, _ := v.Node(id)
			k := n.Value.Key()
			if other, dup := seen[k]; dup {
				return Fail("nodes %q and %q both hold %s", other, id, n.Value)
			}
			seen[k] = id
		}
	case KindMaxNodes:
		if n := v.NodeCount(); n > s.N {
			return Fail("graph has %d nodes, max %d", n, s.N)
		}
	case KindEdgeLabels:
		for _, e := range v.Edges() {
			if _, ok := slices.BinarySearch(s.Labels, e.Label); !ok {
				return Fail("edge %s -> %s has label %q", e.From, e.To, e.Label)
			}
		}
	case KindWeighted:
		for _, e := range v.Edges() {
			if !e.HasWeight() {
				return Fail("edge %s -> %s has no weight", e.From, e.To)
			}
		}
	case KindNonNegativeWeights:
		for _, e := range v.Edges() {
			if e.W() < 0 {
				return Fail("edge %s -> %s has negative weight %g", e.From, e.To, e.W())
			}
		}
	case KindCustom:
		if s.Predicate == nil {
			return Fail("custom rule %q has no predicate", s.Custom)
		}
		return s.Predicate(v)
	}
	return Pass
}

func checkSingleRoot(v store.View) Result {
	if v.NodeCount() == 0 {
		return Pass
	}
	if !v.Directed() {
		if cc := algo.ConnectedComponents(v); len(cc) > 1 {
			return Fail("graph has %d disconnected components", len(cc))
		}
		return Pass
	}
	roots := store.Roots(v)
	switch len(roots) {
	case 1:
		return Pass
	case 0:
		return Fail("no root: every node has a parent")
	}
	if len(roots) > 5 {
		return Fail("found %d roots: %s, ...", len(roots), strings.Join(roots[:5], ", "))
	}
	return Fail("found %d roots: %s", len(roots), strings.Join(roots, ", "))
}

// checkBinaryOrdered verifies that every left subtree holds values less
// than its parent and every right subtree values greater or equal, and that
// no node has two left or two right children.
func checkBinaryOrdered(v store.View) Result {
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
			return Fail("node %q has %d left and %d right children", id, left, right)
		}
	}

	type bound struct {
		v   value.Value
		set bool
	}
	visited := make(map[string]bool)
	var walk func(id string, lo, hi bound) Result
	walk = func(id string, lo, hi bound) Result {
		if visited[id] {
			return Pass
		}
		visited[id] = true
		n, _ := v.Node(id)
		if lo.set && value.Less(n.Value, lo.v) {
			return Fail("node %q value %s is below its ancestor %s", id, n.Value, lo.v)
		}
		if hi.set && !value.Less(n.Value, hi.v) {
			return Fail("node %q value %s is not below its ancestor %s", id, n.Value, hi.v)
		}
		for _, e := range v.OutEdges(id) {
			var r Result
			switch e.Label {
			case LabelLeft:
				r = walk(e.To, lo, bound{n.Value, true})
			case LabelRight:
				r = walk(e.To, bound{n.Value, true}, hi)
			default:
				continue
			}
			if !r.Passed {
				return r
			}
		}
		return Pass
	}
	for _, root := range store.Roots(v) {
		if r := walk(root, bound{}, bound{}); !r.Passed {
			return r
		}
	}
	return Pass
}
