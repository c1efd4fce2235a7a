package collection

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/graphcore/pkg/behavior"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	gio "github.com/matzehuels/graphcore/pkg/io"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/value"
)

func ints(ns ...int) []value.Value {
	out := make([]value.Value, len(ns))
	for i, n := range ns {
		out[i] = value.Int(n)
	}
	return out
}

func TestListOperations(t *testing.T) {
	l, err := ListOf(ints(1, 2, 3)...)
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name string
		do   func() error
		want []value.Value
	}{
		{"insert front", func() error { return l.Insert(0, value.Int(0)) }, ints(0, 1, 2, 3)},
		{"insert middle", func() error { return l.Insert(2, value.Int(9)) }, ints(0, 1, 9, 2, 3)},
		{"insert at end", func() error { return l.Insert(5, value.Int(4)) }, ints(0, 1, 9, 2, 3, 4)},
		{"remove middle", func() error { _, err := l.Remove(2); return err }, ints(0, 1, 2, 3, 4)},
		{"remove head", func() error { _, err := l.Remove(0); return err }, ints(1, 2, 3, 4)},
		{"remove tail", func() error { _, err := l.Remove(3); return err }, ints(1, 2, 3)},
		{"set", func() error { return l.Set(1, value.Int(20)) }, ints(1, 20, 3)},
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if got := l.Values(); !slices.EqualFunc(got, s.want, value.Equal) {
			t.Fatalf("%s: Values = %v, want %v", s.name, got, s.want)
		}
	}

	if v, err := l.Get(1); err != nil || !value.Equal(v, value.Int(20)) {
		t.Errorf("Get(1) = %v, %v", v, err)
	}
	if i := l.IndexOf(value.Int(3)); i != 2 {
		t.Errorf("IndexOf(3) = %d, want 2", i)
	}
	if i := l.IndexOf(value.Int(99)); i != -1 {
		t.Errorf("IndexOf(99) = %d, want -1", i)
	}
	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
}

func TestListIndexErrors(t *testing.T) {
	l, _ := ListOf(ints(1)...)
	for _, err := range []error{
		func() error { _, err := l.Get(1); return err }(),
		func() error { _, err := l.Remove(-1); return err }(),
		l.Insert(3, value.Int(0)),
		l.Set(7, value.Int(0)),
	} {
		if !errors.Is(err, ErrIndexOutOfRange) || !gcerrors.Is(err, gcerrors.ErrCodeNotFound) {
			t.Errorf("error = %v, want index out of range", err)
		}
	}
}

func TestListRejectsBranching(t *testing.T) {
	l, _ := ListOf(ints(1, 2)...)
	ids := l.NodeIDs()
	_ = l.AddNode("extra", value.Int(3))
	// extra is a second head; single_root rejected it.
	if l.HasNode("extra") {
		t.Fatal("list accepted a detached node")
	}
	err := l.AddEdge(ids[0], ids[0], LabelNext)
	if !gcerrors.Is(err, gcerrors.ErrCodeSelfLoop) {
		t.Errorf("self loop error = %v", err)
	}
}

func TestMap(t *testing.T) {
	m, err := NewMap(Options{})
	if err != nil {
		t.Fatal(err)
	}
	_ = m.Set("b", value.Int(2))
	_ = m.Set("a", value.Int(1))
	_ = m.Set("b", value.Int(3))

	if got := m.Keys(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Keys = %v, want [b a]", got)
	}
	if v, ok := m.Get("b"); !ok || !value.Equal(v, value.Int(3)) {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if ok, _ := m.Delete("a"); !ok || m.Has("a") {
		t.Error("Delete(a) did not remove the key")
	}
	if ok, _ := m.Delete("a"); ok {
		t.Error("Delete of a missing key = true")
	}
	if got := m.Entries(); len(got) != 1 || !value.Equal(got["b"], value.Int(3)) {
		t.Errorf("Entries = %v", got)
	}

	if err := m.AddRule("non_negative"); err != nil {
		t.Fatalf("AddRule(non_negative): %v", err)
	}
	_ = m.Set("neg", value.Int(-4))
	if v, _ := m.Get("neg"); !value.Equal(v, value.Int(4)) {
		t.Errorf("Get(neg) = %v, want 4", v)
	}
}

func TestTreeStructure(t *testing.T) {
	tr, _ := NewTree(Options{})
	root, _ := tr.Insert(value.String("root"), "")
	a, _ := tr.Insert(value.String("a"), root)
	b, _ := tr.Insert(value.String("b"), root)
	a1, _ := tr.Insert(value.String("a1"), a)

	if got, ok := tr.Root(); !ok || got != root {
		t.Errorf("Root = %q, %v", got, ok)
	}
	if got := tr.Children(root); !slices.Equal(got, []string{a, b}) {
		t.Errorf("Children(root) = %v", got)
	}
	if p, ok := tr.Parent(a1); !ok || p != a {
		t.Errorf("Parent(a1) = %q, %v", p, ok)
	}
	if _, ok := tr.Parent(root); ok {
		t.Error("root has a parent")
	}
	if d, _ := tr.Depth(); d != 2 {
		t.Errorf("Depth = %d, want 2", d)
	}
	if d, _ := tr.NodeDepth(a1); d != 2 {
		t.Errorf("NodeDepth(a1) = %d, want 2", d)
	}
	if got := tr.Leaves(); !slices.Equal(got, []string{b, a1}) {
		t.Errorf("Leaves = %v", got)
	}
	if sub, _ := tr.Subtree(a); !slices.Equal(sub, []string{a, a1}) {
		t.Errorf("Subtree(a) = %v", sub)
	}

	_, err := tr.RemoveNode(a)
	wantViolation(t, err, "single_root")

	n, err := tr.RemoveSubtree(a)
	if err != nil || n != 2 {
		t.Fatalf("RemoveSubtree(a) = %d, %v", n, err)
	}
	if tr.HasNode(a1) || tr.Len() != 2 {
		t.Errorf("nodes after RemoveSubtree = %v", tr.NodeIDs())
	}

	_, err = tr.Insert(value.String("orphan"), "")
	wantViolation(t, err, "single_root")
	if _, err := tr.Insert(value.String("x"), "missing"); !gcerrors.Is(err, gcerrors.ErrCodeMissingNode) {
		t.Errorf("Insert under a missing parent = %v", err)
	}
}

func TestTreeMinMax(t *testing.T) {
	tr, _ := NewTree(Options{})
	if _, err := tr.Min(); !errors.Is(err, ErrEmpty) || !gcerrors.Is(err, gcerrors.ErrCodeEmptyStructure) {
		t.Errorf("Min on empty tree = %v", err)
	}
	if _, err := tr.NodeDepth("x"); !errors.Is(err, ErrEmpty) {
		t.Errorf("NodeDepth on empty tree = %v", err)
	}
	root, _ := tr.Insert(value.Int(5), "")
	_, _ = tr.Insert(value.Int(-2), root)
	_, _ = tr.Insert(value.Int(11), root)
	if v, _ := tr.Min(); !value.Equal(v, value.Int(-2)) {
		t.Errorf("Min = %v, want -2", v)
	}
	if v, _ := tr.Max(); !value.Equal(v, value.Int(11)) {
		t.Errorf("Max = %v, want 11", v)
	}
}

func TestBST(t *testing.T) {
	tr, err := NewTree(Options{Ruleset: "bst"})
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{50, 30, 70, 20, 40, 60, 80, 35} {
		if _, err := tr.InsertBST(value.Int(n)); err != nil {
			t.Fatalf("InsertBST(%d): %v", n, err)
		}
	}
	want := ints(20, 30, 35, 40, 50, 60, 70, 80)
	if got := tr.InOrder(); !slices.EqualFunc(got, want, value.Equal) {
		t.Errorf("InOrder = %v, want %v", got, want)
	}

	root, _ := tr.Root()
	left := tr.Children(root)[0]
	// A third child breaks binary_tree; a misplaced value breaks ordering.
	wantViolation(t, func() error {
		_, err := tr.InsertLabeled(value.Int(1), root, rules.LabelLeft)
		return err
	}(), "max_children_2")
	wantViolation(t, func() error {
		_, err := tr.InsertLabeled(value.Int(45), tr.Children(left)[0], rules.LabelRight)
		return err
	}(), "binary_ordered")
}

func TestBSTUsesTransformedKey(t *testing.T) {
	tr, _ := NewTree(Options{Ruleset: "bst"})
	_ = tr.AddRule("positive")
	for _, n := range []int{10, -5, -20} {
		if _, err := tr.InsertBST(value.Int(n)); err != nil {
			t.Fatalf("InsertBST(%d): %v", n, err)
		}
	}
	if got, want := tr.InOrder(), ints(5, 10, 20); !slices.EqualFunc(got, want, value.Equal) {
		t.Errorf("InOrder = %v, want %v", got, want)
	}
}

func TestSnapshotRestore(t *testing.T) {
	tr, _ := NewTree(Options{})
	_ = tr.AddRule("none_to_zero")
	_ = tr.AddRuleWithPolicy("max_children_3", rules.Warn)
	_ = tr.AddRule("validate_range", "-10", "10")
	root, _ := tr.Insert(value.Int(1), "")
	_, _ = tr.Insert(value.None(), root)
	_ = tr.SetMeta(root, "color", "red")
	tr.SetGraphMeta("title", "demo")

	doc := tr.Snapshot()
	data, err := gio.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := gio.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	g, err := Restore(back, Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if g.ID() != tr.ID() || g.Kind() != KindTree {
		t.Errorf("restored identity = %s %s", g.ID(), g.Kind())
	}
	if !slices.Equal(g.Rules(), tr.Rules()) || !slices.Equal(g.Behaviors(), tr.Behaviors()) {
		t.Errorf("restored rules %v %v, want %v %v", g.Rules(), g.Behaviors(), tr.Rules(), tr.Behaviors())
	}
	again, _ := gio.Marshal(g.Snapshot())
	if !bytes.Equal(data, again) {
		t.Errorf("snapshot changed across restore:\n%s\n---\n%s", data, again)
	}

	restored := AsTree(g)
	_, err = restored.Insert(value.Int(99), "")
	wantViolation(t, err, "single_root")
	id, err := restored.Insert(value.Int(99), root)
	if err != nil {
		t.Fatalf("Insert after restore: %v", err)
	}
	if v, _ := restored.Value(id); !value.Equal(v, value.Int(10)) {
		t.Errorf("restored validate_range produced %v, want 10", v)
	}
}

func TestRestoreRejectsInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  gio.Document
	}{
		{"unknown kind", gio.Document{Kind: "heap"}},
		{"unknown rule", gio.Document{Rules: []gio.Rule{{Name: "levitate"}}}},
		{"bad policy", gio.Document{Rules: []gio.Rule{{Name: "no_cycles", Policy: "sometimes"}}}},
		{"unknown behavior kind", gio.Document{Behaviors: []gio.Rule{{Name: "grades", Kind: "teleport"}}}},
		{"dangling edge", gio.Document{
			Nodes: []gio.Node{{ID: "a"}},
			Edges: []gio.Edge{{From: "a", To: "b"}},
		}},
		{"violates own rules", gio.Document{
			Rules: []gio.Rule{{Name: "single_root"}},
			Nodes: []gio.Node{{ID: "a"}, {ID: "b"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Restore(tt.doc, Options{}); err == nil {
				t.Error("Restore succeeded, want error")
			}
		})
	}
}

func TestSnapshotRestoresMappings(t *testing.T) {
	l, _ := NewList(Options{})
	if err := l.AddMappingBehavior(map[string]value.Value{"a": value.Int(1)}, value.Int(0), true); err != nil {
		t.Fatal(err)
	}
	grades := behavior.Mapping(map[string]value.Value{"1": value.String("one")}).As("grades")
	if err := l.AddBehavior(grades); err != nil {
		t.Fatal(err)
	}
	if err := l.AddBehavior(behavior.ValidateRange(0, 5).As("small")); err != nil {
		t.Fatal(err)
	}

	data := snapshotJSON(t, l.Graph)
	back, err := gio.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Behaviors) != 3 {
		t.Fatalf("snapshot behaviors = %+v, want 3", back.Behaviors)
	}
	g, err := Restore(back, Options{})
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := g.Behaviors(); !slices.Equal(got, []string{"grades", "mapping", "small"}) {
		t.Errorf("restored behaviors = %v", got)
	}
	if again := snapshotJSON(t, g); !bytes.Equal(data, again) {
		t.Errorf("snapshot changed across restore:\n%s\n---\n%s", data, again)
	}

	restored := AsList(g)
	for _, in := range []value.Value{value.String("zzz"), value.String("a")} {
		if err := restored.Append(in); err != nil {
			t.Fatal(err)
		}
	}
	// zzz -> 0 by default; a -> 1 -> "one" through grades.
	if got, want := restored.Values(), []value.Value{value.Int(0), value.String("one")}; !slices.EqualFunc(got, want, value.Equal) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestBehaviorNameConflicts(t *testing.T) {
	l, _ := ListOf(value.String("a"), value.Int(9))
	if err := l.AddMappingBehavior(map[string]value.Value{"a": value.String("b")}, value.None(), false); err != nil {
		t.Fatal(err)
	}
	if err := l.AddRule("validate_range", "0", "10"); err != nil {
		t.Fatal(err)
	}

	err := l.AddMappingBehavior(map[string]value.Value{"b": value.String("c")}, value.None(), false)
	if !gcerrors.Is(err, gcerrors.ErrCodeInvalidInput) {
		t.Errorf("second mapping error = %v, want INVALID_INPUT", err)
	}
	if err := l.AddRule("validate_range", "5", "6"); !gcerrors.Is(err, gcerrors.ErrCodeInvalidInput) {
		t.Errorf("second range error = %v, want INVALID_INPUT", err)
	}
	if err := l.AddRule("validate_range", "0", "10"); err != nil {
		t.Errorf("re-adding the same range: %v", err)
	}
	if got, want := l.Values(), []value.Value{value.String("b"), value.Int(9)}; !slices.EqualFunc(got, want, value.Equal) {
		t.Errorf("Values = %v, want %v", got, want)
	}

	if err := l.AddBehavior(behavior.ValidateRange(5, 6).As("narrow")); err != nil {
		t.Fatalf("renamed range: %v", err)
	}
	if v, _ := l.Get(1); !value.Equal(v, value.Int(6)) {
		t.Errorf("Get(1) = %v, want 6", v)
	}
}

func TestListRestoreKeepsOrder(t *testing.T) {
	l, _ := ListOf(ints(3, 1, 2)...)
	_ = l.Insert(1, value.Int(7))
	g, err := Restore(l.Snapshot(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	restored := AsList(g)
	if got, want := restored.Values(), ints(3, 7, 1, 2); !slices.EqualFunc(got, want, value.Equal) {
		t.Errorf("Values = %v, want %v", got, want)
	}
	if err := restored.Append(value.Int(4)); err != nil {
		t.Fatalf("Append after restore: %v", err)
	}
	if restored.Len() != 5 {
		t.Errorf("Len = %d, want 5", restored.Len())
	}
}
