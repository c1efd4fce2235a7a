package rules

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Kind identifies a rule variant.
type Kind int

const (
	KindNoCycles Kind = iota
	KindAcyclicDirected
	KindSingleRoot
	KindMaxChildren
	KindMaxParents
	KindNoSelfLoops
	KindConnected
	KindBinaryOrdered
	KindUniqueValues
	KindMaxNodes
	KindEdgeLabels
	KindWeighted
	KindNonNegativeWeights
	KindCustom
)

// Result is the outcome of one rule check.
type Result struct {
	Passed bool
	Reason string
}

// Pass is the passing Result.
var Pass = Result{Passed: true}

// Fail returns a failing Result with a formatted reason.
func Fail(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Predicate is a user-supplied rule over the whole graph.
type Predicate func(v store.View) Result

// Spec is one structural rule. The set of kinds is closed; [Custom] is the
// only extension point.
type Spec struct {
	Kind      Kind
	N         int       // MaxChildren, MaxParents, MaxNodes
	Labels    []string  // EdgeLabels
	Custom    string    // name of a Custom rule
	Predicate Predicate // Custom
}

func NoCycles() Spec           { return Spec{Kind: KindNoCycles} }
func AcyclicDirected() Spec    { return Spec{Kind: KindAcyclicDirected} }
func SingleRoot() Spec         { return Spec{Kind: KindSingleRoot} }
func MaxChildren(n int) Spec   { return Spec{Kind: KindMaxChildren, N: n} }
func MaxParents(n int) Spec    { return Spec{Kind: KindMaxParents, N: n} }
func NoSelfLoops() Spec        { return Spec{Kind: KindNoSelfLoops} }
func Connected() Spec          { return Spec{Kind: KindConnected} }
func BinaryOrdered() Spec      { return Spec{Kind: KindBinaryOrdered} }
func UniqueValues() Spec       { return Spec{Kind: KindUniqueValues} }
func MaxNodes(n int) Spec      { return Spec{Kind: KindMaxNodes, N: n} }
func Weighted() Spec           { return Spec{Kind: KindWeighted} }
func NonNegativeWeights() Spec { return Spec{Kind: KindNonNegativeWeights} }

// EdgeLabels restricts edges to the given labels.
func EdgeLabels(labels ...string) Spec {
	return Spec{Kind: KindEdgeLabels, Labels: slices.Sorted(slices.Values(labels))}
}

// Custom wraps a user predicate under a name.
func Custom(name string, pred Predicate) Spec {
	return Spec{Kind: KindCustom, Custom: name, Predicate: pred}
}

// CallPredicate adapts an executor function value into a Predicate. graph
// turns the view into the Value handed to the function. A truthy return
// passes; a falsy return or a call error fails the rule.
func CallPredicate(call value.Caller, fn value.Value, graph func(store.View) value.Value) Predicate {
	return func(v store.View) Result {
		out, err := call(fn, graph(v))
		if err != nil {
			return Fail("predicate failed: %v", err)
		}
		if !out.Truthy() {
			return Fail("predicate returned %s", out)
		}
		return Pass
	}
}

// Name returns the canonical rule name, e.g. "max_children_2".
func (s Spec) Name() string {
	switch s.Kind {
	case KindNoCycles:
		return "no_cycles"
	case KindAcyclicDirected:
		return "acyclic_directed"
	case KindSingleRoot:
		return "single_root"
	case KindMaxChildren:
		return fmt.Sprintf("max_children_%d", s.N)
	case KindMaxParents:
		return fmt.Sprintf("max_parents_%d", s.N)
	case KindNoSelfLoops:
		return "no_self_loops"
	case KindConnected:
		return "connected"
	case KindBinaryOrdered:
		return "binary_ordered"
	case KindUniqueValues:
		return "unique_values"
	case KindMaxNodes:
		return fmt.Sprintf("max_nodes_%d", s.N)
	case KindEdgeLabels:
		return "edge_labels"
	case KindWeighted:
		return "weighted"
	case KindNonNegativeWeights:
		return "non_negative_weights"
	case KindCustom:
		return s.Custom
	}
	return fmt.Sprintf("rule(%d)", int(s.Kind))
}

func (s Spec) String() string {
	if s.Kind == KindEdgeLabels {
		return fmt.Sprintf("edge_labels(%s)", strings.Join(s.Labels, ","))
	}
	return s.Name()
}

// Suggestion returns a hint for fixing a violation of s.
func (s Spec) Suggestion() string {
	switch s.Kind {
	case KindNoCycles, KindAcyclicDirected:
		return "remove an edge on the cycle or reverse the new edge"
	case KindSingleRoot:
		return "use insert(value, parent) to attach the node under an existing node"
	case KindMaxChildren:
		return fmt.Sprintf("attach the node under a parent with fewer than %d children", s.N)
	case KindMaxParents:
		return "remove the existing parent edge first"
	case KindNoSelfLoops:
		return "connect the node to a different node"
	case KindConnected:
		return "add an edge linking the new node to the graph"
	case KindBinaryOrdered:
		return "use insert_bst(value) to place values by ordering"
	case KindUniqueValues:
		return "update the existing node instead of adding a duplicate"
	case KindMaxNodes:
		return "remove a node before adding another"
	case KindEdgeLabels:
		return "use one of the labels " + strings.Join(s.Labels, ", ")
	case KindWeighted:
		return "pass a weight when adding the edge"
	case KindNonNegativeWeights:
		return "use a weight of zero or more"
	}
	return ""
}

// parameterized maps prefixes of numbered rules to constructors.
var parameterized = map[string]func(int) Spec{
	"max_children_": MaxChildren,
	"max_parents_":  MaxParents,
	"max_nodes_":    MaxNodes,
}

var fixed = map[string]func() Spec{
	"no_cycles":            NoCycles,
	"acyclic_directed":     AcyclicDirected,
	"single_root":          SingleRoot,
	"no_self_loops":        NoSelfLoops,
	"connected":            Connected,
	"binary_ordered":       BinaryOrdered,
	"unique_values":        UniqueValues,
	"weighted":             Weighted,
	"non_negative_weights": NonNegativeWeights,
}

// Parse resolves a built-in rule name. Numbered rules take their parameter
// from the name ("max_children_2") or from args ("max_children", "2");
// edge_labels takes its labels from args. A leading ':' is ignored.
func Parse(name string, args ...string) (Spec, error) {
	name = strings.TrimPrefix(name, ":")
	if err := errors.ValidateRuleName(name); err != nil {
		return Spec{}, err
	}
	if ctor, ok := fixed[name]; ok {
		return ctor(), nil
	}
	if name == "edge_labels" {
		if len(args) == 0 {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "edge_labels needs at least one label")
		}
		return EdgeLabels(args...), nil
	}
	for prefix, ctor := range parameterized {
		base := strings.TrimSuffix(prefix, "_")
		var raw string
		switch {
		case strings.HasPrefix(name, prefix):
			raw = strings.TrimPrefix(name, prefix)
		case name == base && len(args) == 1:
			raw = args[0]
		default:
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "rule %q needs a non-negative integer, got %q", base, raw)
		}
		return ctor(n), nil
	}
	return Spec{}, errors.New(errors.ErrCodeUnknownRule, "unknown rule %q", name)
}

// IsBuiltin reports whether name parses as a built-in rule.
func IsBuiltin(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// BuiltinNames lists the built-in rule names, numbered rules with an N
// placeholder.
func BuiltinNames() []string {
	names := make([]string, 0, len(fixed)+len(parameterized)+1)
	for name := range fixed {
		names = append(names, name)
	}
	for prefix := range parameterized {
		names = append(names, prefix+"N")
	}
	names = append(names, "edge_labels")
	slices.Sort(names)
	return names
}
