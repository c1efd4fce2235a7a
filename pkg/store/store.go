package store

import (
	"errors"
	"maps"
	"slices"

	"github.com/matzehuels/graphcore/pkg/value"
)

var (
	// ErrInvalidNodeID is returned by [Store.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNode is returned by [Store.AddNode] when a node with the same
	// ID already exists. Node IDs are unique within a graph.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrMissingNode is returned by [Store.AddEdge] when either endpoint does not
	// exist, and by value/metadata setters for unknown IDs.
	ErrMissingNode = errors.New("missing node")

	// ErrDuplicateEdge is returned by [Store.AddEdge] when an edge with the same
	// endpoints and label already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop is returned by [Store.AddEdge] for from == to unless the store
	// was created with AllowSelfLoops.
	ErrSelfLoop = errors.New("self loop not allowed")

	// ErrStaleDelta is returned by [Store.Apply] when the store changed after
	// the delta was started.
	ErrStaleDelta = errors.New("delta was built against an older generation")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph itself. Metadata maps are never nil once stored.
type Metadata map[string]any

// Node is a vertex holding a value and optional metadata.
type Node struct {
	ID    string
	Value value.Value
	Meta  Metadata
}

// Edge is a labelled, optionally weighted connection between two nodes.
// In an undirected store an Edge is traversable both ways; From/To keep the
// orientation it was inserted with.
type Edge struct {
	From   string
	To     string
	Label  string
	Weight *float64
	Props  Metadata
}

// W returns the edge weight, or 1 for unweighted edges.
func (e Edge) W() float64 {
	if e.Weight == nil {
		return 1
	}
	return *e.Weight
}

// HasWeight reports whether the edge carries an explicit weight.
func (e Edge) HasWeight() bool { return e.Weight != nil }

// Other returns the endpoint opposite id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Weight is a convenience for building weighted edges.
func Weight(w float64) *float64 { return &w }

// edgeKey identifies an edge. For undirected stores the endpoints are sorted
// so both orientations map to the same key.
type edgeKey struct {
	a, b, label string
}

func keyOf(e Edge, directed bool) edgeKey {
	if !directed && e.To < e.From {
		return edgeKey{e.To, e.From, e.Label}
	}
	return edgeKey{e.From, e.To, e.Label}
}

// Options configures a new Store.
type Options struct {
	// Undirected makes every edge traversable in both directions.
	Undirected bool
	// AllowSelfLoops permits edges with From == To.
	AllowSelfLoops bool
}

// Store holds nodes, edges and adjacency indices for one graph.
//
// Nodes and edges are kept in insertion order, which every query and every
// algorithm in this module preserves. The zero value is not usable; use New.
// Store is not safe for concurrent use: mutations must be serialized by the
// owner, and read-only queries may run concurrently only while no mutation
// is in flight.
type Store struct {
	directed  bool
	selfLoops bool

	order []string
	nodes map[string]*Node
	seq   map[string]uint64
	next  uint64

	edges []*Edge
	eseq  map[*Edge]uint64
	keys  map[edgeKey]*Edge
	out   map[string][]*Edge
	in    map[string][]*Edge

	labels  map[string]int
	indexes map[string]*propIndex

	gen uint64
}

// New creates an empty store.
func New(opts Options) *Store {
	return &Store{
		directed:  !opts.Undirected,
		selfLoops: opts.AllowSelfLoops,
		nodes:     make(map[string]*Node),
		seq:       make(map[string]uint64),
		eseq:      make(map[*Edge]uint64),
		keys:      make(map[edgeKey]*Edge),
		out:       make(map[string][]*Edge),
		in:        make(map[string][]*Edge),
		labels:    make(map[string]int),
		indexes:   make(map[string]*propIndex),
	}
}

// Directed reports whether edges are one-way.
func (s *Store) Directed() bool { return s.directed }

// AllowsSelfLoops reports whether edges with From == To are accepted.
func (s *Store) AllowsSelfLoops() bool { return s.selfLoops }

// Generation returns a counter that changes on every successful mutation.
func (s *Store) Generation() uint64 { return s.gen }

// AddNode inserts a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNode if the ID is taken. A nil Meta is replaced by an empty map.
func (s *Store) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := s.nodes[n.ID]; exists {
		return ErrDuplicateNode
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	} else {
		n.Meta = maps.Clone(n.Meta)
	}
	node := &n
	s.nodes[n.ID] = node
	s.order = append(s.order, n.ID)
	s.seq[n.ID] = s.next
	s.next++
	s.indexAdd(node)
	s.gen++
	return nil
}

// RemoveNode deletes a node and every incident edge. It reports whether the
// node existed.
func (s *Store) RemoveNode(id string) bool {
	node, ok := s.nodes[id]
	if !ok {
		return false
	}
	for _, e := range slices.Clone(s.out[id]) {
		s.dropEdge(e)
	}
	for _, e := range slices.Clone(s.in[id]) {
		s.dropEdge(e)
	}
	s.indexRemove(node)
	delete(s.nodes, id)
	delete(s.seq, id)
	delete(s.out, id)
	delete(s.in, id)
	s.order = slices.DeleteFunc(s.order, func(x string) bool { return x == id })
	s.gen++
	return true
}

// AddEdge connects two existing nodes. Returns ErrMissingNode if either
// endpoint is absent, ErrSelfLoop for disallowed self loops and
// ErrDuplicateEdge if the same (from, to, label) edge exists. A nil Props is
// replaced by an empty map.
func (s *Store) AddEdge(e Edge) error {
	if _, ok := s.nodes[e.From]; !ok {
		return ErrMissingNode
	}
	if _, ok := s.nodes[e.To]; !ok {
		return ErrMissingNode
	}
	if e.From == e.To && !s.selfLoops {
		return ErrSelfLoop
	}
	k := keyOf(e, s.directed)
	if _, exists := s.keys[k]; exists {
		return ErrDuplicateEdge
	}
	if e.Props == nil {
		e.Props = Metadata{}
	} else {
		e.Props = maps.Clone(e.Props)
	}
	if e.Weight != nil {
		w := *e.Weight
		e.Weight = &w
	}
	edge := &e
	s.edges = append(s.edges, edge)
	s.eseq[edge] = s.next
	s.next++
	s.keys[k] = edge
	s.out[e.From] = append(s.out[e.From], edge)
	if e.From != e.To || s.directed {
		s.in[e.To] = append(s.in[e.To], edge)
	}
	s.labels[e.Label]++
	s.gen++
	return nil
}

// RemoveEdge removes edges from→to. An empty label matches any label.
// In undirected stores the orientation is ignored. Returns the number of
// edges removed.
func (s *Store) RemoveEdge(from, to, label string) int {
	var doomed []*Edge
	for _, e := range s.out[from] {
		if matchEdge(*e, from, to, label, s.directed) {
			doomed = append(doomed, e)
		}
	}
	if !s.directed {
		for _, e := range s.in[from] {
			if matchEdge(*e, from, to, label, false) && !slices.Contains(doomed, e) {
				doomed = append(doomed, e)
			}
		}
	}
	for _, e := range doomed {
		s.dropEdge(e)
	}
	if len(doomed) > 0 {
		s.gen++
	}
	return len(doomed)
}

func matchEdge(e Edge, from, to, label string, directed bool) bool {
	if label != "" && e.Label != label {
		return false
	}
	if e.From == from && e.To == to {
		return true
	}
	return !directed && e.From == to && e.To == from
}

func (s *Store) dropEdge(e *Edge) {
	if _, ok := s.keys[keyOf(*e, s.directed)]; !ok {
		return
	}
	delete(s.keys, keyOf(*e, s.directed))
	delete(s.eseq, e)
	s.edges = slices.DeleteFunc(s.edges, func(x *Edge) bool { return x == e })
	s.out[e.From] = slices.DeleteFunc(s.out[e.From], func(x *Edge) bool { return x == e })
	s.in[e.To] = slices.DeleteFunc(s.in[e.To], func(x *Edge) bool { return x == e })
	if s.labels[e.Label]--; s.labels[e.Label] == 0 {
		delete(s.labels, e.Label)
	}
}

// SetValue replaces a node's value. Returns ErrMissingNode for unknown IDs.
func (s *Store) SetValue(id string, v value.Value) error {
	node, ok := s.nodes[id]
	if !ok {
		return ErrMissingNode
	}
	s.indexRemove(node)
	node.Value = v
	s.indexAdd(node)
	s.gen++
	return nil
}

// SetMeta sets one metadata key on a node. A nil v deletes the key.
func (s *Store) SetMeta(id, key string, v any) error {
	node, ok := s.nodes[id]
	if !ok {
		return ErrMissingNode
	}
	s.indexRemove(node)
	if v == nil {
		delete(node.Meta, key)
	} else {
		node.Meta[key] = v
	}
	s.indexAdd(node)
	s.gen++
	return nil
}

// Clear removes every node and edge. Indices stay registered and are emptied.
func (s *Store) Clear() {
	s.order = nil
	s.nodes = make(map[string]*Node)
	s.seq = make(map[string]uint64)
	s.edges = nil
	s.eseq = make(map[*Edge]uint64)
	s.keys = make(map[edgeKey]*Edge)
	s.out = make(map[string][]*Edge)
	s.in = make(map[string][]*Edge)
	s.labels = make(map[string]int)
	for _, idx := range s.indexes {
		idx.clear()
	}
	s.gen++
}

// HasNode reports whether id exists.
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Value returns the value stored at id.
func (s *Store) Value(id string) (value.Value, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return value.None(), false
	}
	return n.Value, true
}

// Meta returns the metadata of a node, or nil if it does not exist.
// The returned map is a copy.
func (s *Store) Meta(id string) Metadata {
	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	return maps.Clone(n.Meta)
}

// NodeIDs returns node IDs in insertion order.
func (s *Store) NodeIDs() []string { return slices.Clone(s.order) }

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	nodes := make([]Node, len(s.order))
	for i, id := range s.order {
		nodes[i] = s.nodes[id].clone()
	}
	return nodes
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []Edge { return derefEdges(s.edges) }

// OutEdges returns edges leaving id. In undirected stores this is every
// incident edge, oriented so that From == id.
func (s *Store) OutEdges(id string) []Edge {
	if s.directed {
		return derefEdges(s.out[id])
	}
	return s.incident(id)
}

// InEdges returns edges entering id. In undirected stores this is every
// incident edge, oriented so that To == id.
func (s *Store) InEdges(id string) []Edge {
	if s.directed {
		return derefEdges(s.in[id])
	}
	edges := s.incident(id)
	for i := range edges {
		edges[i].From, edges[i].To = edges[i].To, edges[i].From
	}
	return edges
}

// incident merges out and in edges of id in insertion order, oriented away
// from id. Both lists are already in insertion order, so one merge pass by
// edge sequence suffices.
func (s *Store) incident(id string) []Edge {
	out, in := s.out[id], s.in[id]
	edges := make([]Edge, 0, len(out)+len(in))
	for len(out) > 0 || len(in) > 0 {
		var e *Edge
		if len(in) == 0 || (len(out) > 0 && s.eseq[out[0]] < s.eseq[in[0]]) {
			e, out = out[0], out[1:]
		} else {
			e, in = in[0], in[1:]
		}
		c := e.clone()
		if c.From != id {
			c.From, c.To = c.To, c.From
		}
		edges = append(edges, c)
	}
	return edges
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int { return len(s.edges) }

// LabelCounts returns the number of edges per label.
func (s *Store) LabelCounts() map[string]int { return maps.Clone(s.labels) }

// EdgesByLabel returns edges with the given label in insertion order.
func (s *Store) EdgesByLabel(label string) []Edge {
	if s.labels[label] == 0 {
		return nil
	}
	var edges []Edge
	for _, e := range s.edges {
		if e.Label == label {
			edges = append(edges, e.clone())
		}
	}
	return edges
}

func derefEdges(src []*Edge) []Edge {
	edges := make([]Edge, len(src))
	for i, e := range src {
		edges[i] = e.clone()
	}
	return edges
}
