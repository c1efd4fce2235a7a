// Package collection provides the governed graph value and the list, map
// and tree facades built on it.
//
// Every collection is a directed graph of nodes and labelled edges. A
// mutation flows through three stages before it reaches the store:
//
//  1. the behavior pipeline transforms incoming values
//  2. the change is staged in a delta and the rule engine validates the
//     delta's proposed state
//  3. the delta is applied, updating adjacency and indexes
//
// Composite operations such as [Tree.Insert] or [List.Insert] stage all of
// their steps in one [Tx] and are validated once, against the combined
// final state. Queries and algorithms read the committed store directly.
//
// # Rules and behaviors
//
// [Graph.AddRule] resolves a name to a structural rule, a ruleset, a
// behavior or a behavior ruleset:
//
//	g.AddRule("no_cycles")
//	g.AddRule("max_children", "2")
//	l.AddRule("none_to_zero")
//	l.AddRule("validate_range", "0", "100")
//
// Attaching a behavior re-applies it to every existing value. Removing a
// rule or behavior never undoes past effects.
//
// # Errors
//
// Structural failures carry the codes DUPLICATE_NODE, MISSING_NODE,
// SELF_LOOP and friends; rejected mutations return a
// *errors.RuleViolation. Either way the graph is unchanged.
package collection
