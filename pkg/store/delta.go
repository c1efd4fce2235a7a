package store

import (
	"fmt"

	"github.com/matzehuels/graphcore/pkg/value"
)

// OpKind identifies a staged mutation.
type OpKind int

const (
	OpAddNode OpKind = iota
	OpRemoveNode
	OpAddEdge
	OpRemoveEdge
	OpSetValue
	OpSetMeta
	OpClear
)

func (k OpKind) String() string {
	switch k {
	case OpAddNode:
		return "add_node"
	case OpRemoveNode:
		return "remove_node"
	case OpAddEdge:
		return "add_edge"
	case OpRemoveEdge:
		return "remove_edge"
	case OpSetValue:
		return "set_value"
	case OpSetMeta:
		return "set_meta"
	case OpClear:
		return "clear"
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one staged mutation. Only the fields relevant to Kind are set.
type Op struct {
	Kind  OpKind
	Node  Node        // OpAddNode
	Edge  Edge        // OpAddEdge; OpRemoveEdge uses From, To and Label
	ID    string      // OpRemoveNode, OpSetValue, OpSetMeta
	Value value.Value // OpSetValue
	Key   string      // OpSetMeta
	Meta  any         // OpSetMeta
}

func (op Op) apply(m mutator) error {
	switch op.Kind {
	case OpAddNode:
		return m.AddNode(op.Node)
	case OpRemoveNode:
		m.RemoveNode(op.ID)
	case OpAddEdge:
		return m.AddEdge(op.Edge)
	case OpRemoveEdge:
		m.RemoveEdge(op.Edge.From, op.Edge.To, op.Edge.Label)
	case OpSetValue:
		return m.SetValue(op.ID, op.Value)
	case OpSetMeta:
		return m.SetMeta(op.ID, op.Key, op.Meta)
	case OpClear:
		m.Clear()
	}
	return nil
}

// Delta is an ordered set of proposed mutations against one store
// generation. Every staged op is applied to an [Overlay] immediately, so
// the proposed state can be inspected and validated before [Store.Apply]
// commits it. Ops that fail against the overlay are not recorded.
type Delta struct {
	base    *Store
	gen     uint64
	ops     []Op
	overlay *Overlay
}

// Begin starts a delta against the current state of s.
func (s *Store) Begin() *Delta {
	return &Delta{base: s, gen: s.gen, overlay: newOverlay(s)}
}

// View returns the proposed state.
func (d *Delta) View() *Overlay { return d.overlay }

// Base returns the store the delta was started on.
func (d *Delta) Base() *Store { return d.base }

// Ops returns the recorded ops in order.
func (d *Delta) Ops() []Op { return append([]Op(nil), d.ops...) }

// Len returns the number of recorded ops.
func (d *Delta) Len() int { return len(d.ops) }

// Empty reports whether the delta records no changes.
func (d *Delta) Empty() bool { return len(d.ops) == 0 }

func (d *Delta) record(op Op) error {
	if err := op.apply(d.overlay); err != nil {
		return err
	}
	d.ops = append(d.ops, op)
	return nil
}

func (d *Delta) AddNode(n Node) error { return d.record(Op{Kind: OpAddNode, Node: n}) }

func (d *Delta) RemoveNode(id string) bool {
	if !d.overlay.HasNode(id) {
		return false
	}
	_ = d.record(Op{Kind: OpRemoveNode, ID: id})
	return true
}

func (d *Delta) AddEdge(e Edge) error { return d.record(Op{Kind: OpAddEdge, Edge: e}) }

func (d *Delta) RemoveEdge(from, to, label string) int {
	n := d.overlay.RemoveEdge(from, to, label)
	if n > 0 {
		d.ops = append(d.ops, Op{Kind: OpRemoveEdge, Edge: Edge{From: from, To: to, Label: label}})
	}
	return n
}

func (d *Delta) SetValue(id string, v value.Value) error {
	return d.record(Op{Kind: OpSetValue, ID: id, Value: v})
}

func (d *Delta) SetMeta(id, key string, v any) error {
	return d.record(Op{Kind: OpSetMeta, ID: id, Key: key, Meta: v})
}

func (d *Delta) Clear() { _ = d.record(Op{Kind: OpClear}) }

// Apply commits a delta. It fails with ErrStaleDelta if the delta belongs to
// another store or the store changed since [Store.Begin].
func (s *Store) Apply(d *Delta) error {
	if d.base != s || d.gen != s.gen {
		return ErrStaleDelta
	}
	for i, op := range d.ops {
		if err := op.apply(s); err != nil {
			return fmt.Errorf("apply op %d (%s): %w", i, op.Kind, err)
		}
	}
	if len(d.ops) > 0 {
		// The delta cannot be applied twice.
		d.gen = ^uint64(0)
	}
	return nil
}
