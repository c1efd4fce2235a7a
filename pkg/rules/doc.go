// Package rules enforces structural invariants on graphs.
//
// A [Spec] is one rule: a pure check over a [store.View] that passes or
// fails with a reason. The catalog of kinds is closed (no_cycles,
// single_root, max_children_N, ...); [Custom] wraps a user predicate and is
// the only extension point.
//
// A [Bundle] is the ordered set of rules active on one graph, each with a
// [Policy]. The [Engine] runs a bundle against the proposed state of a
// [store.Delta] before it is committed:
//
//	d := s.Begin()
//	d.AddNode(store.Node{ID: "x"})
//	d.AddEdge(store.Edge{From: "root", To: "x"})
//	report, err := engine.Validate(bundle, d, "insert")
//	if err != nil {
//	    return err // *errors.RuleViolation, d is discarded
//	}
//	s.Apply(d)
//
// Because validation sees only the combined final state, composite
// operations never trip rules on their intermediate states.
//
// # Rulesets
//
// A [Ruleset] is a named template (tree, dag, bst, ...) that instantiates
// a fresh bundle. User rulesets can be loaded from TOML into a [Catalog].
package rules
