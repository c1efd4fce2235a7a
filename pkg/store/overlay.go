package store

import (
	"maps"
	"slices"

	"github.com/matzehuels/graphcore/pkg/value"
)

// Overlay is a copy-on-write view of a Store plus pending changes. The base
// store is never written; base nodes are copied into the overlay the first
// time they are modified.
//
// An Overlay is only meaningful while its base is unchanged. [Delta] guards
// this with the store generation.
type Overlay struct {
	base    *Store
	cleared bool

	nodes   map[string]*Node // added or modified nodes
	removed map[string]bool  // base nodes hidden by the overlay
	added   []string         // added node IDs in insertion order

	edges       []*Edge
	edgeKeys    map[edgeKey]*Edge
	removedBase map[edgeKey]bool

	nodeCount int
	edgeCount int
}

func newOverlay(base *Store) *Overlay {
	return &Overlay{
		base:        base,
		nodes:       make(map[string]*Node),
		removed:     make(map[string]bool),
		edgeKeys:    make(map[edgeKey]*Edge),
		removedBase: make(map[edgeKey]bool),
		nodeCount:   base.NodeCount(),
		edgeCount:   base.EdgeCount(),
	}
}

// Base returns the store the overlay is layered on.
func (o *Overlay) Base() *Store { return o.base }

func (o *Overlay) Directed() bool { return o.base.directed }

func (o *Overlay) baseVisible(id string) bool {
	return !o.cleared && !o.removed[id] && o.base.HasNode(id)
}

func (o *Overlay) baseEdgeVisible(e Edge) bool {
	return !o.cleared && !o.removedBase[keyOf(e, o.base.directed)]
}

func (o *Overlay) HasNode(id string) bool {
	if _, ok := o.nodes[id]; ok {
		return true
	}
	return o.baseVisible(id)
}

func (o *Overlay) Node(id string) (Node, bool) {
	if n, ok := o.nodes[id]; ok {
		return n.clone(), true
	}
	if !o.baseVisible(id) {
		return Node{}, false
	}
	return o.base.Node(id)
}

func (o *Overlay) NodeIDs() []string {
	ids := make([]string, 0, o.nodeCount)
	if !o.cleared {
		for _, id := range o.base.order {
			if !o.removed[id] {
				ids = append(ids, id)
			}
		}
	}
	return append(ids, o.added...)
}

func (o *Overlay) Edges() []Edge {
	edges := make([]Edge, 0, o.edgeCount)
	if !o.cleared {
		for _, e := range o.base.edges {
			if o.baseEdgeVisible(*e) {
				edges = append(edges, e.clone())
			}
		}
	}
	return append(edges, derefEdges(o.edges)...)
}

func (o *Overlay) OutEdges(id string) []Edge {
	var edges []Edge
	if o.baseVisible(id) {
		for _, e := range o.base.OutEdges(id) {
			if o.baseEdgeVisible(e) {
				edges = append(edges, e)
			}
		}
	}
	for _, e := range o.edges {
		switch {
		case e.From == id:
			edges = append(edges, e.clone())
		case !o.base.directed && e.To == id:
			c := e.clone()
			c.From, c.To = c.To, c.From
			edges = append(edges, c)
		}
	}
	return edges
}

func (o *Overlay) InEdges(id string) []Edge {
	if !o.base.directed {
		edges := o.OutEdges(id)
		for i := range edges {
			edges[i].From, edges[i].To = edges[i].To, edges[i].From
		}
		return edges
	}
	var edges []Edge
	if o.baseVisible(id) {
		for _, e := range o.base.InEdges(id) {
			if o.baseEdgeVisible(e) {
				edges = append(edges, e)
			}
		}
	}
	for _, e := range o.edges {
		if e.To == id {
			edges = append(edges, e.clone())
		}
	}
	return edges
}

func (o *Overlay) NodeCount() int { return o.nodeCount }

func (o *Overlay) EdgeCount() int { return o.edgeCount }

// AddNode stages a node insertion.
func (o *Overlay) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if o.HasNode(n.ID) {
		return ErrDuplicateNode
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	} else {
		n.Meta = maps.Clone(n.Meta)
	}
	o.nodes[n.ID] = &n
	o.added = append(o.added, n.ID)
	o.nodeCount++
	return nil
}

// RemoveNode stages removal of a node and its incident edges.
func (o *Overlay) RemoveNode(id string) bool {
	if !o.HasNode(id) {
		return false
	}
	if o.baseVisible(id) {
		for _, e := range o.base.OutEdges(id) {
			o.hideBaseEdge(e)
		}
		for _, e := range o.base.InEdges(id) {
			o.hideBaseEdge(e)
		}
		o.removed[id] = true
	}
	for _, e := range slices.Clone(o.edges) {
		if e.From == id || e.To == id {
			o.dropEdge(e)
		}
	}
	delete(o.nodes, id)
	o.added = slices.DeleteFunc(o.added, func(x string) bool { return x == id })
	o.nodeCount--
	return true
}

func (o *Overlay) hideBaseEdge(e Edge) {
	k := keyOf(e, o.base.directed)
	if o.removedBase[k] {
		return
	}
	o.removedBase[k] = true
	o.edgeCount--
}

func (o *Overlay) dropEdge(e *Edge) {
	delete(o.edgeKeys, keyOf(*e, o.base.directed))
	o.edges = slices.DeleteFunc(o.edges, func(x *Edge) bool { return x == e })
	o.edgeCount--
}

func (o *Overlay) hasEdgeKey(k edgeKey) bool {
	if _, ok := o.edgeKeys[k]; ok {
		return true
	}
	_, inBase := o.base.keys[k]
	return inBase && !o.cleared && !o.removedBase[k]
}

// AddEdge stages an edge insertion with the same checks as [Store.AddEdge].
func (o *Overlay) AddEdge(e Edge) error {
	if !o.HasNode(e.From) || !o.HasNode(e.To) {
		return ErrMissingNode
	}
	if e.From == e.To && !o.base.selfLoops {
		return ErrSelfLoop
	}
	k := keyOf(e, o.base.directed)
	if o.hasEdgeKey(k) {
		return ErrDuplicateEdge
	}
	c := e.clone()
	if c.Props == nil {
		c.Props = Metadata{}
	}
	o.edges = append(o.edges, &c)
	o.edgeKeys[k] = &c
	o.edgeCount++
	return nil
}

// RemoveEdge stages removal of from→to edges; an empty label matches any.
func (o *Overlay) RemoveEdge(from, to, label string) int {
	n := 0
	for _, e := range o.OutEdges(from) {
		if !matchEdge(e, from, to, label, o.base.directed) {
			continue
		}
		k := keyOf(e, o.base.directed)
		if added, ok := o.edgeKeys[k]; ok {
			o.dropEdge(added)
		} else {
			o.hideBaseEdge(e)
		}
		n++
	}
	return n
}

// own returns a modifiable copy of a node, copying it from the base first.
func (o *Overlay) own(id string) (*Node, bool) {
	if n, ok := o.nodes[id]; ok {
		return n, true
	}
	if !o.baseVisible(id) {
		return nil, false
	}
	c := o.base.nodes[id].clone()
	o.nodes[id] = &c
	return &c, true
}

// SetValue stages a value change.
func (o *Overlay) SetValue(id string, v value.Value) error {
	n, ok := o.own(id)
	if !ok {
		return ErrMissingNode
	}
	n.Value = v
	return nil
}

// SetMeta stages a metadata change; nil deletes the key.
func (o *Overlay) SetMeta(id, key string, v any) error {
	n, ok := o.own(id)
	if !ok {
		return ErrMissingNode
	}
	if v == nil {
		delete(n.Meta, key)
	} else {
		n.Meta[key] = v
	}
	return nil
}

// Clear stages removal of everything.
func (o *Overlay) Clear() {
	o.cleared = true
	o.nodes = make(map[string]*Node)
	o.removed = make(map[string]bool)
	o.added = nil
	o.edges = nil
	o.edgeKeys = make(map[edgeKey]*Edge)
	o.removedBase = make(map[edgeKey]bool)
	o.nodeCount = 0
	o.edgeCount = 0
}
