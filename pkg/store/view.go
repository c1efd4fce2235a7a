package store

import (
	"maps"
	"slices"

	"github.com/matzehuels/graphcore/pkg/value"
)

// View is the read-only surface shared by a committed [Store] and an
// uncommitted [Overlay]. Rules and algorithms are written against View so
// they can run on proposed state before it is committed.
type View interface {
	Directed() bool
	HasNode(id string) bool
	Node(id string) (Node, bool)
	NodeIDs() []string
	Edges() []Edge
	OutEdges(id string) []Edge
	InEdges(id string) []Edge
	NodeCount() int
	EdgeCount() int
}

var (
	_ View = (*Store)(nil)
	_ View = (*Overlay)(nil)
)

// mutator is implemented by both Store and Overlay so a Delta can be
// replayed onto either.
type mutator interface {
	AddNode(Node) error
	RemoveNode(id string) bool
	AddEdge(Edge) error
	RemoveEdge(from, to, label string) int
	SetValue(id string, v value.Value) error
	SetMeta(id, key string, v any) error
	Clear()
}

func (n *Node) clone() Node {
	c := *n
	c.Meta = maps.Clone(n.Meta)
	return c
}

func (e *Edge) clone() Edge {
	c := *e
	c.Props = maps.Clone(e.Props)
	if e.Weight != nil {
		w := *e.Weight
		c.Weight = &w
	}
	return c
}

// Roots returns nodes without incoming edges, in insertion order.
// Self loops do not count as incoming edges.
func Roots(v View) []string {
	var roots []string
	for _, id := range v.NodeIDs() {
		if InDegree(v, id) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// InDegree counts incoming edges of id, ignoring self loops.
func InDegree(v View, id string) int {
	n := 0
	for _, e := range v.InEdges(id) {
		if e.From != e.To {
			n++
		}
	}
	return n
}

// OutDegree counts outgoing edges of id, ignoring self loops.
func OutDegree(v View, id string) int {
	n := 0
	for _, e := range v.OutEdges(id) {
		if e.From != e.To {
			n++
		}
	}
	return n
}

// Successors returns the distinct targets of id's outgoing edges in edge
// order. In undirected views these are all neighbors.
func Successors(v View, id string) []string {
	return distinctEnds(v.OutEdges(id), func(e Edge) string { return e.To })
}

// Predecessors returns the distinct sources of id's incoming edges.
func Predecessors(v View, id string) []string {
	return distinctEnds(v.InEdges(id), func(e Edge) string { return e.From })
}

func distinctEnds(edges []Edge, end func(Edge) string) []string {
	var ids []string
	for _, e := range edges {
		if id := end(e); !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// LabelCounts returns the number of edges per label in v.
func LabelCounts(v View) map[string]int {
	if s, ok := v.(*Store); ok {
		return s.LabelCounts()
	}
	counts := make(map[string]int)
	for _, e := range v.Edges() {
		counts[e.Label]++
	}
	return counts
}

// Lookup finds nodes whose property equals want. Committed stores answer
// from their indices; other views are scanned.
func Lookup(v View, prop string, want value.Value) []string {
	if s, ok := v.(*Store); ok {
		return s.Lookup(prop, want)
	}
	var ids []string
	for _, id := range v.NodeIDs() {
		n, _ := v.Node(id)
		if got, ok := propertyOf(&n, prop); ok && value.Equal(got, want) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Direction selects which incident edges a neighbor query follows.
type Direction int

const (
	Out Direction = iota
	In
	Both
)

func (d Direction) String() string {
	switch d {
	case Out:
		return "out"
	case In:
		return "in"
	}
	return "both"
}

// ParseDirection parses "out", "in" or "both".
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "out", "":
		return Out, true
	case "in":
		return In, true
	case "both":
		return Both, true
	}
	return Out, false
}

// Neighbors returns the distinct nodes adjacent to id in the given
// direction, in edge insertion order.
func Neighbors(v View, id string, dir Direction) []string {
	switch dir {
	case Out:
		return Successors(v, id)
	case In:
		return Predecessors(v, id)
	}
	ids := Successors(v, id)
	for _, p := range Predecessors(v, id) {
		if !slices.Contains(ids, p) {
			ids = append(ids, p)
		}
	}
	return ids
}

// Degree counts incident edges. In directed views it is in-degree plus
// out-degree; in undirected views each incident edge counts once.
func Degree(v View, id string) int {
	if !v.Directed() {
		return OutDegree(v, id)
	}
	return InDegree(v, id) + OutDegree(v, id)
}

// Neighbors is [Neighbors] on the committed store.
func (s *Store) Neighbors(id string, dir Direction) []string { return Neighbors(s, id, dir) }

// Degree is [Degree] on the committed store.
func (s *Store) Degree(id string) int { return Degree(s, id) }

// InDegree is [InDegree] on the committed store.
func (s *Store) InDegree(id string) int { return InDegree(s, id) }

// OutDegree is [OutDegree] on the committed store.
func (s *Store) OutDegree(id string) int { return OutDegree(s, id) }
