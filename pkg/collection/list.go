package collection

import (
	"errors"
	"fmt"

	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// LabelNext links consecutive list elements.
const LabelNext = "next"

var (
	// ErrIndexOutOfRange is returned for list positions outside [0, Len).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmpty is returned by queries that need at least one element.
	ErrEmpty = errors.New("collection is empty")
)

// List is a sequence stored as a chain of nodes joined by "next" edges and
// governed by the linked_list ruleset.
type List struct {
	*Graph
	seq int
}

// NewList creates an empty list.
func NewList(opts Options) (*List, error) {
	if opts.Ruleset == "" {
		opts.Ruleset = "linked_list"
	}
	g, err := newGraph(KindList, opts)
	if err != nil {
		return nil, err
	}
	return &List{Graph: g}, nil
}

// ListOf creates a list holding values, in order.
func ListOf(values ...value.Value) (*List, error) {
	l, err := NewList(Options{})
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err := l.Append(v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// AsList wraps a restored list graph.
func AsList(g *Graph) *List { return &List{Graph: g} }

func (l *List) newID() string {
	for {
		l.seq++
		id := fmt.Sprintf("n%d", l.seq)
		if !l.store.HasNode(id) {
			return id
		}
	}
}

// order returns element IDs from head to tail.
func (l *List) order() []string {
	ids := make([]string, 0, l.store.NodeCount())
	head, ok := l.Root()
	if !ok {
		return ids
	}
	seen := make(map[string]bool, l.store.NodeCount())
	for id := head; id != "" && !seen[id]; {
		seen[id] = true
		ids = append(ids, id)
		next := ""
		for _, e := range l.store.OutEdges(id) {
			if e.Label == LabelNext {
				next = e.To
				break
			}
		}
		id = next
	}
	return ids
}

func outOfRange(i, n int) error {
	return gcerrors.Wrap(gcerrors.ErrCodeNotFound, ErrIndexOutOfRange, "index %d, length %d", i, n)
}

// Append adds v at the end.
func (l *List) Append(v value.Value) error {
	order := l.order()
	return l.Batch("append", func(tx *Tx) error {
		id := l.newID()
		if err := tx.AddNode(id, v); err != nil {
			return err
		}
		if len(order) == 0 {
			return nil
		}
		return tx.AddEdge(store.Edge{From: order[len(order)-1], To: id, Label: LabelNext})
	})
}

// Insert places v at position i, shifting later elements. i == Len()
// appends.
func (l *List) Insert(i int, v value.Value) error {
	order := l.order()
	if i < 0 || i > len(order) {
		return outOfRange(i, len(order))
	}
	if i == len(order) {
		return l.Append(v)
	}
	return l.Batch("insert", func(tx *Tx) error {
		id := l.newID()
		if err := tx.AddNode(id, v); err != nil {
			return err
		}
		if i > 0 {
			tx.RemoveEdge(order[i-1], order[i], LabelNext)
			if err := tx.AddEdge(store.Edge{From: order[i-1], To: id, Label: LabelNext}); err != nil {
				return err
			}
		}
		return tx.AddEdge(store.Edge{From: id, To: order[i], Label: LabelNext})
	})
}

// Remove deletes the element at i and returns its value.
func (l *List) Remove(i int) (value.Value, error) {
	order := l.order()
	if i < 0 || i >= len(order) {
		return value.None(), outOfRange(i, len(order))
	}
	old, _ := l.store.Value(order[i])
	err := l.Batch("remove", func(tx *Tx) error {
		tx.RemoveNode(order[i])
		if i > 0 && i < len(order)-1 {
			return tx.AddEdge(store.Edge{From: order[i-1], To: order[i+1], Label: LabelNext})
		}
		return nil
	})
	if err != nil {
		return value.None(), err
	}
	return old, nil
}

// Get returns the element at i.
func (l *List) Get(i int) (value.Value, error) {
	order := l.order()
	if i < 0 || i >= len(order) {
		return value.None(), outOfRange(i, len(order))
	}
	v, _ := l.store.Value(order[i])
	return v, nil
}

// Set replaces the element at i, through the behaviors.
func (l *List) Set(i int, v value.Value) error {
	order := l.order()
	if i < 0 || i >= len(order) {
		return outOfRange(i, len(order))
	}
	return l.SetValue(order[i], v)
}

// Values returns the elements in order.
func (l *List) Values() []value.Value {
	order := l.order()
	out := make([]value.Value, len(order))
	for i, id := range order {
		out[i], _ = l.store.Value(id)
	}
	return out
}

// IndexOf returns the first position holding v, or -1.
func (l *List) IndexOf(v value.Value) int {
	for i, item := range l.Values() {
		if value.Equal(item, v) {
			return i
		}
	}
	return -1
}

// Map is a keyed collection. Keys are node IDs, so insertion order is key
// order.
type Map struct {
	*Graph
}

// NewMap creates an empty map.
func NewMap(opts Options) (*Map, error) {
	g, err := newGraph(KindMap, opts)
	if err != nil {
		return nil, err
	}
	return &Map{Graph: g}, nil
}

// AsMap wraps a restored map graph.
func AsMap(g *Graph) *Map { return &Map{Graph: g} }

// Set stores v under key, replacing any previous value.
func (m *Map) Set(key string, v value.Value) error {
	if m.store.HasNode(key) {
		return m.SetValue(key, v)
	}
	return m.AddNode(key, v)
}

// Get returns the value under key.
func (m *Map) Get(key string) (value.Value, bool) { return m.store.Value(key) }

// Has reports whether key is present.
func (m *Map) Has(key string) bool { return m.store.HasNode(key) }

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) (bool, error) { return m.RemoveNode(key) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return m.store.NodeIDs() }

// Entries returns a copy of the map contents.
func (m *Map) Entries() map[string]value.Value {
	out := make(map[string]value.Value, m.store.NodeCount())
	for _, n := range m.store.Nodes() {
		out[n.ID] = n.Value
	}
	return out
}
