package collection

import (
	"errors"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphcore/pkg/behavior"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Kind is the facade a graph was created for.
type Kind string

const (
	KindGraph Kind = "graph"
	KindList  Kind = "list"
	KindMap   Kind = "map"
	KindTree  Kind = "tree"
)

// Type is the type tag of a graph.
type Type string

const (
	Directed   Type = "directed"
	Undirected Type = "undirected"
	DAG        Type = "dag"
	Weighted   Type = "weighted"
)

// ParseType converts a type tag, defaulting to Directed for "".
func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case "":
		return Directed, nil
	case Directed, Undirected, DAG, Weighted:
		return t, nil
	}
	return "", gcerrors.New(gcerrors.ErrCodeInvalidInput, "unknown graph type %q", s)
}

// Options configures a new Graph.
type Options struct {
	// Type selects directedness and the rules implied by the tag: DAG adds
	// acyclic_directed, Weighted adds the weighted ruleset.
	Type Type
	// AllowSelfLoops permits edges from a node to itself.
	AllowSelfLoops bool
	// Ruleset is attached at construction, e.g. "tree".
	Ruleset string
	// Logger receives rule warnings and behavior failures. Nil uses
	// log.Default().
	Logger *log.Logger
}

// Graph is a governed graph value: a store plus the rules and behaviors
// every mutation passes through.
//
// A mutation transforms incoming values through the behavior pipeline,
// records the change in a delta, validates the delta's proposed state
// against the rule bundle and only then commits it. A rejected mutation
// leaves the graph exactly as it was.
//
// Graph is not safe for concurrent mutation.
type Graph struct {
	id   uuid.UUID
	kind Kind
	typ  Type

	store     *store.Store
	rules     *rules.Bundle
	behaviors *behavior.Pipeline
	engine    rules.Engine

	root     string
	meta     store.Metadata
	warnings []*gcerrors.RuleViolation

	logger *log.Logger
}

// New creates an empty graph.
func New(opts Options) (*Graph, error) {
	return newGraph(KindGraph, opts)
}

// MustNew is New for options known to be valid.
func MustNew(opts Options) *Graph {
	g, err := New(opts)
	if err != nil {
		panic(err)
	}
	return g
}

func newGraph(kind Kind, opts Options) (*Graph, error) {
	typ, err := ParseType(string(opts.Type))
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	g := &Graph{
		id:        uuid.New(),
		kind:      kind,
		typ:       typ,
		store:     store.New(store.Options{Undirected: typ == Undirected, AllowSelfLoops: opts.AllowSelfLoops}),
		rules:     rules.NewBundle(),
		behaviors: &behavior.Pipeline{Logger: logger},
		engine:    rules.Engine{Logger: logger},
		meta:      store.Metadata{},
		logger:    logger,
	}
	switch typ {
	case DAG:
		g.rules.Add(rules.AcyclicDirected(), rules.Strict)
	case Weighted:
		if _, err := g.AddRuleset("weighted"); err != nil {
			return nil, err
		}
	}
	if opts.Ruleset != "" {
		if _, err := g.AddRuleset(opts.Ruleset); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ID returns the graph identity.
func (g *Graph) ID() uuid.UUID { return g.id }

// Kind returns the facade kind.
func (g *Graph) Kind() Kind { return g.kind }

// Type returns the type tag.
func (g *Graph) Type() Type { return g.typ }

// View returns the committed state for read-only queries and algorithms.
func (g *Graph) View() store.View { return g.store }

// Generation returns the store generation, which changes on every commit.
func (g *Graph) Generation() uint64 { return g.store.Generation() }

// Warnings returns the warn-policy violations recorded by the last
// committed mutation.
func (g *Graph) Warnings() []*gcerrors.RuleViolation {
	return append([]*gcerrors.RuleViolation(nil), g.warnings...)
}

// commit validates d and applies it. It is the only path by which a
// mutation reaches the store.
func (g *Graph) commit(d *store.Delta, op string) error {
	start := time.Now()
	report, err := g.engine.Validate(g.rules, d, op)
	if err != nil {
		observability.Mutations().OnReject(op, err)
		return err
	}
	if err := g.store.Apply(d); err != nil {
		observability.Mutations().OnReject(op, err)
		return gcerrors.Wrap(gcerrors.ErrCodeInternal, err, "%s", op)
	}
	g.warnings = report.Warnings
	if g.root != "" && !g.store.HasNode(g.root) {
		g.root = ""
	}
	observability.Mutations().OnCommit(op, d.Len(), time.Since(start))
	return nil
}

// structural maps a store sentinel to a coded error naming op.
func structural(op string, err error) error {
	code := gcerrors.ErrCodeInvalidInput
	switch {
	case errors.Is(err, store.ErrDuplicateNode):
		code = gcerrors.ErrCodeDuplicateNode
	case errors.Is(err, store.ErrDuplicateEdge):
		code = gcerrors.ErrCodeDuplicateEdge
	case errors.Is(err, store.ErrMissingNode):
		code = gcerrors.ErrCodeMissingNode
	case errors.Is(err, store.ErrSelfLoop):
		code = gcerrors.ErrCodeSelfLoop
	case errors.Is(err, store.ErrInvalidNodeID):
		code = gcerrors.ErrCodeInvalidNodeID
	}
	observability.Mutations().OnReject(op, err)
	return gcerrors.Wrap(code, err, "%s", op)
}

// AddNode adds a node holding v after running it through the behaviors.
func (g *Graph) AddNode(id string, v value.Value) error {
	return g.Batch("add_node", func(tx *Tx) error { return tx.AddNode(id, v) })
}

// AddEdge adds an unweighted edge.
func (g *Graph) AddEdge(from, to, label string) error {
	return g.InsertEdge(store.Edge{From: from, To: to, Label: label})
}

// AddWeightedEdge adds an edge with weight w.
func (g *Graph) AddWeightedEdge(from, to, label string, w float64) error {
	return g.InsertEdge(store.Edge{From: from, To: to, Label: label, Weight: store.Weight(w)})
}

// InsertEdge adds e, including its weight and properties.
func (g *Graph) InsertEdge(e store.Edge) error {
	return g.Batch("add_edge", func(tx *Tx) error { return tx.AddEdge(e) })
}

// AdoptEdge adds an edge that was built against src. Edges only ever join
// nodes of one graph, so any src other than g is rejected.
func (g *Graph) AdoptEdge(src *Graph, e store.Edge) error {
	if src == nil || src.id != g.id {
		err := gcerrors.New(gcerrors.ErrCodeCrossGraph, "edge %s->%s belongs to another graph", e.From, e.To)
		observability.Mutations().OnReject("add_edge", err)
		return err
	}
	return g.InsertEdge(e)
}

// RemoveNode removes a node and its incident edges. It reports false if the
// node did not exist.
func (g *Graph) RemoveNode(id string) (bool, error) {
	var removed bool
	err := g.Batch("remove_node", func(tx *Tx) error {
		removed = tx.RemoveNode(id)
		return nil
	})
	return removed && err == nil, err
}

// RemoveEdge removes edges from->to with label, or with any label when
// label is empty, and returns how many were removed.
func (g *Graph) RemoveEdge(from, to, label string) (int, error) {
	var n int
	err := g.Batch("remove_edge", func(tx *Tx) error {
		n = tx.RemoveEdge(from, to, label)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// SetValue replaces the value of an existing node, through the behaviors.
func (g *Graph) SetValue(id string, v value.Value) error {
	return g.Batch("set_value", func(tx *Tx) error { return tx.SetValue(id, v) })
}

// Value returns the value of a node.
func (g *Graph) Value(id string) (value.Value, bool) { return g.store.Value(id) }

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool { return g.store.HasNode(id) }

// SetMeta sets a metadata key on a node; nil deletes the key.
func (g *Graph) SetMeta(id, key string, v any) error {
	return g.Batch("set_meta", func(tx *Tx) error { return tx.SetMeta(id, key, v) })
}

// Meta returns a copy of a node's metadata.
func (g *Graph) Meta(id string) store.Metadata { return g.store.Meta(id) }

// GraphMeta returns a copy of the graph-level metadata.
func (g *Graph) GraphMeta() store.Metadata { return maps.Clone(g.meta) }

// SetGraphMeta sets a graph-level metadata key; nil deletes the key.
func (g *Graph) SetGraphMeta(key string, v any) {
	if v == nil {
		delete(g.meta, key)
		return
	}
	g.meta[key] = v
}

// Clear removes every node and edge. Rules and behaviors stay attached.
func (g *Graph) Clear() error {
	return g.Batch("clear", func(tx *Tx) error {
		tx.Clear()
		return nil
	})
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []store.Node { return g.store.Nodes() }

// NodeIDs returns every node ID in insertion order.
func (g *Graph) NodeIDs() []string { return g.store.NodeIDs() }

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []store.Edge { return g.store.Edges() }

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.store.NodeCount() }

// Neighbors returns the distinct neighbors of id in the given direction.
func (g *Graph) Neighbors(id string, dir store.Direction) []string {
	return g.store.Neighbors(id, dir)
}

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id string) int { return g.store.Degree(id) }

// InDegree returns the number of edges into id.
func (g *Graph) InDegree(id string) int { return g.store.InDegree(id) }

// OutDegree returns the number of edges out of id.
func (g *Graph) OutDegree(id string) int { return g.store.OutDegree(id) }

// Root returns the designated root, or the only node without an incoming
// hierarchy edge.
func (g *Graph) Root() (string, bool) {
	if g.root != "" {
		return g.root, true
	}
	roots := store.Roots(rules.Hierarchy(g.store, g.rules.Hierarchy()))
	if len(roots) == 1 {
		return roots[0], true
	}
	return "", false
}

// SetRoot designates an existing node as the root.
func (g *Graph) SetRoot(id string) error {
	if !g.store.HasNode(id) {
		return gcerrors.New(gcerrors.ErrCodeMissingNode, "root %q does not exist", id)
	}
	g.root = id
	return nil
}

// CreateIndex starts maintaining an index over a node property: the node
// value under store.ValueProperty, or any metadata key.
func (g *Graph) CreateIndex(prop string) { g.store.CreateIndex(prop) }

// DropIndex stops maintaining an index.
func (g *Graph) DropIndex(prop string) { g.store.DropIndex(prop) }

// Find returns the IDs of nodes whose property equals v.
func (g *Graph) Find(prop string, v value.Value) []string { return g.store.Lookup(prop, v) }

// FindByValue returns the IDs of nodes holding v.
func (g *Graph) FindByValue(v value.Value) []string {
	return g.store.Lookup(store.ValueProperty, v)
}

// CanAddEdge reports whether AddEdge(from, to, label) would succeed, and
// if not, why. The graph is not modified.
func (g *Graph) CanAddEdge(from, to, label string) (bool, string) {
	d := g.store.Begin()
	if err := d.AddEdge(store.Edge{From: from, To: to, Label: label}); err != nil {
		return false, err.Error()
	}
	return g.engine.CanApply(g.rules, d)
}
