package collection

import (
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Tx stages the primitive steps of one composite mutation. Every step is
// visible to later steps through View, but rules only see the final state,
// when Batch commits.
type Tx struct {
	g  *Graph
	d  *store.Delta
	op string
}

// Batch runs fn against a fresh transaction and commits the combined result
// as a single mutation named op. If fn returns an error, or the final state
// violates a rule, nothing is committed.
func (g *Graph) Batch(op string, fn func(tx *Tx) error) error {
	tx := &Tx{g: g, d: g.store.Begin(), op: op}
	if err := fn(tx); err != nil {
		return err
	}
	if tx.d.Empty() {
		return nil
	}
	return g.commit(tx.d, op)
}

// View returns the state as staged so far.
func (tx *Tx) View() store.View { return tx.d.View() }

// Value returns a node's staged value.
func (tx *Tx) Value(id string) (value.Value, bool) {
	n, ok := tx.d.View().Node(id)
	return n.Value, ok
}

// AddNode stages a node holding the behavior-transformed v.
func (tx *Tx) AddNode(id string, v value.Value) error {
	if err := gcerrors.ValidateNodeID(id); err != nil {
		observability.Mutations().OnReject(tx.op, err)
		return err
	}
	if err := tx.d.AddNode(store.Node{ID: id, Value: tx.g.behaviors.Apply(v)}); err != nil {
		return structural(tx.op, err)
	}
	return nil
}

// AddEdge stages an edge.
func (tx *Tx) AddEdge(e store.Edge) error {
	if err := gcerrors.ValidateLabel(e.Label); err != nil {
		observability.Mutations().OnReject(tx.op, err)
		return err
	}
	if err := tx.d.AddEdge(e); err != nil {
		return structural(tx.op, err)
	}
	return nil
}

// RemoveNode stages removal of a node and its incident edges.
func (tx *Tx) RemoveNode(id string) bool { return tx.d.RemoveNode(id) }

// RemoveEdge stages removal of matching edges and returns their count.
func (tx *Tx) RemoveEdge(from, to, label string) int { return tx.d.RemoveEdge(from, to, label) }

// SetValue stages a value change, through the behaviors.
func (tx *Tx) SetValue(id string, v value.Value) error {
	if err := tx.d.SetValue(id, tx.g.behaviors.Apply(v)); err != nil {
		return structural(tx.op, err)
	}
	return nil
}

// SetMeta stages a metadata change.
func (tx *Tx) SetMeta(id, key string, v any) error {
	if err := tx.d.SetMeta(id, key, v); err != nil {
		return structural(tx.op, err)
	}
	return nil
}

// Clear stages removal of every node and edge.
func (tx *Tx) Clear() { tx.d.Clear() }

// setRaw stages a value change that bypasses the behaviors; used when a
// behavior is applied retroactively.
func (tx *Tx) setRaw(id string, v value.Value) error {
	if err := tx.d.SetValue(id, v); err != nil {
		return structural(tx.op, err)
	}
	return nil
}
