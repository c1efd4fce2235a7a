package collection

import (
	"fmt"

	"github.com/matzehuels/graphcore/pkg/algo"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// LabelChild links a parent to a child inserted with Tree.Insert.
const LabelChild = "child"

// Tree is a rooted hierarchy governed by the tree ruleset, or by any
// stricter ruleset such as binary_tree or bst.
type Tree struct {
	*Graph
	seq int
}

// NewTree creates an empty tree. opts.Ruleset defaults to "tree".
func NewTree(opts Options) (*Tree, error) {
	if opts.Ruleset == "" {
		opts.Ruleset = "tree"
	}
	g, err := newGraph(KindTree, opts)
	if err != nil {
		return nil, err
	}
	return &Tree{Graph: g}, nil
}

// AsTree wraps a restored tree graph.
func AsTree(g *Graph) *Tree { return &Tree{Graph: g} }

func (t *Tree) newID() string {
	for {
		t.seq++
		id := fmt.Sprintf("t%d", t.seq)
		if !t.store.HasNode(id) {
			return id
		}
	}
}

func (t *Tree) hierarchy() store.View { return rules.Hierarchy(t.store, t.rules.Hierarchy()) }

// Insert adds v under parent and returns the new node ID. With an empty
// parent, v becomes the root of an empty tree. Adding the node and its
// parent edge is one mutation, so rules never see the parentless node.
func (t *Tree) Insert(v value.Value, parent string) (string, error) {
	return t.InsertLabeled(v, parent, LabelChild)
}

// InsertLabeled is Insert with an explicit edge label.
func (t *Tree) InsertLabeled(v value.Value, parent, label string) (string, error) {
	id := t.newID()
	err := t.Batch("insert", func(tx *Tx) error {
		if err := tx.AddNode(id, v); err != nil {
			return err
		}
		if parent == "" {
			return nil
		}
		return tx.AddEdge(store.Edge{From: parent, To: id, Label: label})
	})
	if err != nil {
		return "", err
	}
	if parent == "" && t.root == "" {
		t.root = id
	}
	return id, nil
}

// InsertBST places v by ordering: smaller values go left, others right.
func (t *Tree) InsertBST(v value.Value) (string, error) {
	key := t.behaviors.Apply(v)
	root, ok := t.Root()
	if !ok {
		if t.store.NodeCount() > 0 {
			return "", gcerrors.New(gcerrors.ErrCodeInvalidInput, "tree has no single root")
		}
		return t.Insert(v, "")
	}
	h := t.hierarchy()
	at := root
	for {
		n, _ := t.store.Node(at)
		label := rules.LabelRight
		if value.Less(key, n.Value) {
			label = rules.LabelLeft
		}
		next := ""
		for _, e := range h.OutEdges(at) {
			if e.Label == label {
				next = e.To
				break
			}
		}
		if next == "" {
			return t.InsertLabeled(v, at, label)
		}
		at = next
	}
}

// Children returns the children of id in insertion order.
func (t *Tree) Children(id string) []string { return store.Successors(t.hierarchy(), id) }

// Parent returns the parent of id.
func (t *Tree) Parent(id string) (string, bool) {
	parents := store.Predecessors(t.hierarchy(), id)
	if len(parents) == 0 {
		return "", false
	}
	return parents[0], true
}

// Subtree returns id and all of its descendants in depth-first pre-order.
func (t *Tree) Subtree(id string) ([]string, error) {
	ids, err := algo.DFS(t.hierarchy(), id, nil)
	return ids, algoError("subtree", err)
}

// RemoveSubtree removes id and its descendants in one mutation and returns
// how many nodes were removed.
func (t *Tree) RemoveSubtree(id string) (int, error) {
	ids, err := t.Subtree(id)
	if err != nil {
		return 0, err
	}
	err = t.Batch("remove_subtree", func(tx *Tx) error {
		for _, id := range ids {
			tx.RemoveNode(id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() (int, error) {
	d, err := algo.Depth(t.hierarchy())
	return d, algoError("depth", err)
}

// NodeDepth returns the distance of id from the root.
func (t *Tree) NodeDepth(id string) (int, error) {
	root, ok := t.Root()
	if !ok {
		return 0, gcerrors.Wrap(gcerrors.ErrCodeEmptyStructure, ErrEmpty, "node_depth")
	}
	d, err := algo.NodeDepth(t.hierarchy(), root, id)
	return d, algoError("node_depth", err)
}

// Leaves returns the nodes without children.
func (t *Tree) Leaves() []string { return algo.Leaves(t.hierarchy()) }

// Min returns the smallest value in the tree.
func (t *Tree) Min() (value.Value, error) { return t.extreme("min", value.Less) }

// Max returns the largest value in the tree.
func (t *Tree) Max() (value.Value, error) {
	return t.extreme("max", func(a, b value.Value) bool { return value.Less(b, a) })
}

func (t *Tree) extreme(op string, better func(a, b value.Value) bool) (value.Value, error) {
	nodes := t.store.Nodes()
	if len(nodes) == 0 {
		return value.None(), gcerrors.Wrap(gcerrors.ErrCodeEmptyStructure, ErrEmpty, "%s", op)
	}
	best := nodes[0].Value
	for _, n := range nodes[1:] {
		if better(n.Value, best) {
			best = n.Value
		}
	}
	return best, nil
}

// InOrder returns values left subtree first, then the node, then the right
// subtree. For a bst this is sorted order. Unlabelled children are visited
// after the right subtree.
func (t *Tree) InOrder() []value.Value {
	root, ok := t.Root()
	if !ok {
		return nil
	}
	h := t.hierarchy()
	var out []value.Value
	var walk func(id string)
	walk = func(id string) {
		var left, right, other []string
		for _, e := range h.OutEdges(id) {
			switch e.Label {
			case rules.LabelLeft:
				left = append(left, e.To)
			case rules.LabelRight:
				right = append(right, e.To)
			default:
				other = append(other, e.To)
			}
		}
		for _, c := range left {
			walk(c)
		}
		v, _ := t.store.Value(id)
		out = append(out, v)
		for _, c := range append(right, other...) {
			walk(c)
		}
	}
	walk(root)
	return out
}
