package rules

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

type edge struct {
	from, to, label string
	weight          *float64
}

func graph(t *testing.T, undirected bool, nodes []string, edges ...edge) *store.Store {
	t.Helper()
	s := store.New(store.Options{Undirected: undirected, AllowSelfLoops: true})
	for i, id := range nodes {
		if err := s.AddNode(store.Node{ID: id, Value: value.Int(i)}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := s.AddEdge(store.Edge{From: e.from, To: e.to, Label: e.label, Weight: e.weight}); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.from, e.to, err)
		}
	}
	return s
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr errors.Code
	}{
		{name: "no_cycles", want: "no_cycles"},
		{name: ":single_root", want: "single_root"},
		{name: "max_children_2", want: "max_children_2"},
		{name: "max_children", args: []string{"3"}, want: "max_children_3"},
		{name: "max_nodes_10", want: "max_nodes_10"},
		{name: "edge_labels", args: []string{"b", "a"}, want: "edge_labels"},
		{name: "max_children_x", wantErr: errors.ErrCodeInvalidInput},
		{name: "edge_labels", wantErr: errors.ErrCodeInvalidInput},
		{name: "no_such_rule", wantErr: errors.ErrCodeUnknownRule},
		{name: "NoCycles", wantErr: errors.ErrCodeUnknownRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.name, tt.args...)
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want code %s", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.name, err)
			}
			if s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	w := store.Weight
	tests := []struct {
		name       string
		spec       Spec
		undirected bool
		nodes      []string
		edges      []edge
		want       bool
	}{
		{"no cycles on chain", NoCycles(), false, []string{"a", "b", "c"}, []edge{{from: "a", to: "b"}, {from: "b", to: "c"}}, true},
		{"no cycles on loop", NoCycles(), false, []string{"a", "b"}, []edge{{from: "a", to: "b"}, {from: "b", to: "a"}}, false},
		{"acyclic directed rejects undirected", AcyclicDirected(), true, []string{"a"}, nil, false},
		{"single root empty", SingleRoot(), false, nil, nil, true},
		{"single root", SingleRoot(), false, []string{"r", "a"}, []edge{{from: "r", to: "a"}}, true},
		{"two roots", SingleRoot(), false, []string{"r", "x"}, nil, false},
		{"no root", SingleRoot(), false, []string{"a", "b"}, []edge{{from: "a", to: "b"}, {from: "b", to: "a"}}, false},
		{"max children ok", MaxChildren(2), false, []string{"r", "a", "b"}, []edge{{from: "r", to: "a"}, {from: "r", to: "b"}}, true},
		{"max children exceeded", MaxChildren(1), false, []string{"r", "a", "b"}, []edge{{from: "r", to: "a"}, {from: "r", to: "b"}}, false},
		{"max parents exceeded", MaxParents(1), false, []string{"a", "b", "c"}, []edge{{from: "a", to: "c"}, {from: "b", to: "c"}}, false},
		{"self loop", NoSelfLoops(), false, []string{"a"}, []edge{{from: "a", to: "a"}}, false},
		{"connected", Connected(), false, []string{"a", "b"}, []edge{{from: "b", to: "a"}}, true},
		{"disconnected", Connected(), false, []string{"a", "b"}, nil, false},
		{"max nodes", MaxNodes(1), false, []string{"a", "b"}, nil, false},
		{"edge labels ok", EdgeLabels("next"), false, []string{"a", "b"}, []edge{{from: "a", to: "b", label: "next"}}, true},
		{"edge labels bad", EdgeLabels("next"), false, []string{"a", "b"}, []edge{{from: "a", to: "b", label: "prev"}}, false},
		{"weighted missing", Weighted(), false, []string{"a", "b"}, []edge{{from: "a", to: "b"}}, false},
		{"weighted", Weighted(), false, []string{"a", "b"}, []edge{{from: "a", to: "b", weight: w(0)}}, true},
		{"negative weight", NonNegativeWeights(), false, []string{"a", "b"}, []edge{{from: "a", to: "b", weight: w(-1)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := graph(t, tt.undirected, tt.nodes, tt.edges...)
			r := tt.spec.Check(s, nil)
			if r.Passed != tt.want {
				t.Errorf("%s.Check() = %+v, want passed=%v", tt.spec, r, tt.want)
			}
			if !r.Passed && r.Reason == "" {
				t.Error("failing check has empty reason")
			}
			if f := tt.spec.Findings(s, nil); (len(f) == 0) != r.Passed {
				t.Errorf("Findings() = %q, want empty=%v", f, r.Passed)
			}
		})
	}
}

func TestFindings(t *testing.T) {
	tests := []struct {
		name       string
		spec       Spec
		undirected bool
		nodes      []string
		edges      []edge
		want       []string
	}{
		{"directed cycle members", NoCycles(), false, []string{"a", "b", "c", "d"},
			[]edge{{from: "a", to: "b"}, {from: "b", to: "c"}, {from: "c", to: "b"}, {from: "d", to: "d"}},
			[]string{`node "b" is on a cycle`, `node "c" is on a cycle`, `node "d" is on a cycle`}},
		{"undirected triangle with tail", NoCycles(), true, []string{"a", "b", "c", "t"},
			[]edge{{from: "a", to: "b"}, {from: "b", to: "c"}, {from: "c", to: "a"}, {from: "c", to: "t"}},
			[]string{`node "a" is on a cycle`, `node "b" is on a cycle`, `node "c" is on a cycle`}},
		{"undirected tree", NoCycles(), true, []string{"a", "b", "c"},
			[]edge{{from: "a", to: "b"}, {from: "a", to: "c"}}, nil},
		{"children past the limit", MaxChildren(1), false, []string{"r", "a", "b", "c"},
			[]edge{{from: "r", to: "a"}, {from: "r", to: "b"}, {from: "r", to: "c"}},
			[]string{`node "r" child "b" exceeds max 1`, `node "r" child "c" exceeds max 1`}},
		{"every root", SingleRoot(), false, []string{"r", "x", "a"}, []edge{{from: "r", to: "a"}},
			[]string{`root "r"`, `root "x"`}},
		{"nodes past the limit", MaxNodes(2), false, []string{"a", "b", "c"}, nil,
			[]string{`node "c" exceeds max 2 nodes`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := graph(t, tt.undirected, tt.nodes, tt.edges...)
			if got := tt.spec.Findings(s, nil); !slices.Equal(got, tt.want) {
				t.Errorf("Findings() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueValues(t *testing.T) {
	s := store.New(store.Options{})
	_ = s.AddNode(store.Node{ID: "a", Value: value.Int(1)})
	_ = s.AddNode(store.Node{ID: "b", Value: value.Number(1.0)})
	if r := UniqueValues().Check(s, nil); r.Passed || !strings.Contains(r.Reason, `"a"`) {
		t.Errorf("Check = %+v, want failure naming a", r)
	}
}

func TestBinaryOrdered(t *testing.T) {
	build := func(vals map[string]int, edges ...edge) *store.Store {
		s := store.New(store.Options{})
		for _, id := range []string{"r", "l", "rr", "x"} {
			if v, ok := vals[id]; ok {
				_ = s.AddNode(store.Node{ID: id, Value: value.Int(v)})
			}
		}
		for _, e := range edges {
			_ = s.AddEdge(store.Edge{From: e.from, To: e.to, Label: e.label})
		}
		return s
	}

	ok := build(map[string]int{"r": 50, "l": 25, "rr": 75, "x": 30},
		edge{from: "r", to: "l", label: LabelLeft},
		edge{from: "r", to: "rr", label: LabelRight},
		edge{from: "l", to: "x", label: LabelRight})
	if r := BinaryOrdered().Check(ok, nil); !r.Passed {
		t.Errorf("valid BST failed: %s", r.Reason)
	}

	// 60 sits in the left subtree of 50.
	bad := build(map[string]int{"r": 50, "l": 25, "x": 60},
		edge{from: "r", to: "l", label: LabelLeft},
		edge{from: "l", to: "x", label: LabelRight})
	if r := BinaryOrdered().Check(bad, nil); r.Passed {
		t.Error("BST with 60 under the left subtree of 50 passed")
	}

	twoLeft := build(map[string]int{"r": 50, "l": 25, "x": 10},
		edge{from: "r", to: "l", label: LabelLeft},
		edge{from: "r", to: "x", label: LabelLeft})
	if r := BinaryOrdered().Check(twoLeft, nil); r.Passed {
		t.Error("node with two left children passed")
	}
}

func TestHierarchyLabels(t *testing.T) {
	s := graph(t, false, []string{"r", "a", "b"},
		edge{from: "r", to: "a", label: "child"},
		edge{from: "r", to: "b", label: "child"},
		edge{from: "a", to: "b", label: "ref"})

	if r := MaxParents(1).Check(s, nil); r.Passed {
		t.Error("max_parents_1 passed counting every edge")
	}
	if r := MaxParents(1).Check(s, []string{"child"}); !r.Passed {
		t.Errorf("max_parents_1 on child edges failed: %s", r.Reason)
	}
}

func TestCustomPredicate(t *testing.T) {
	evenNodes := Custom("even_nodes", func(v store.View) Result {
		if v.NodeCount()%2 != 0 {
			return Fail("%d nodes", v.NodeCount())
		}
		return Pass
	})
	if evenNodes.Name() != "even_nodes" {
		t.Errorf("Name() = %q", evenNodes.Name())
	}
	if r := evenNodes.Check(graph(t, false, []string{"a"}), nil); r.Passed {
		t.Error("odd graph passed even_nodes")
	}

	calls := 0
	call := func(fn value.Value, args ...value.Value) (value.Value, error) {
		calls++
		return value.Bool(len(args) == 1 && args[0].Kind() == value.KindGraph), nil
	}
	pred := CallPredicate(call, value.Function("f"), func(store.View) value.Value { return value.Graph("g") })
	if r := Custom("via_call", pred).Check(graph(t, false, nil), nil); !r.Passed || calls != 1 {
		t.Errorf("CallPredicate = %+v after %d calls", r, calls)
	}
}

func TestBundle(t *testing.T) {
	b := NewBundle(Entry{Spec: NoCycles()}, Entry{Spec: SingleRoot(), Policy: Warn})
	if b.Add(NoCycles(), Warn) {
		t.Error("duplicate Add returned true")
	}
	if !b.Add(MaxChildren(2), Strict) {
		t.Error("Add(max_children_2) returned false")
	}
	if got := b.Names(); !slices.Equal(got, []string{"max_children_2", "no_cycles", "single_root"}) {
		t.Errorf("Names = %v", got)
	}
	if e, _ := b.Get("single_root"); e.Policy != Warn {
		t.Errorf("single_root policy = %s, want warn", e.Policy)
	}

	c := b.Clone()
	c.Remove("no_cycles")
	if !b.Has("no_cycles") {
		t.Error("Clone shares entries with original")
	}
	if !c.Remove("single_root") || c.Remove("single_root") {
		t.Error("Remove should report true once")
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{Strict, Warn, IgnoreExisting} {
		got, err := ParsePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Error("ParsePolicy(lenient) should fail")
	}
}
