// Package behavior transforms values on their way into a collection.
//
// A [Spec] is one behavior (none_to_zero, validate_range, mapping, ...).
// A [Pipeline] folds every incoming value through its behaviors in the
// order they were attached. Behaviors fail soft: an error keeps the value
// the failing behavior was given, and the caller never sees it.
//
// User code plugs in through [Custom] and [Conditional]. Executor function
// values are adapted with [CallTransform] and [CallPredicate].
package behavior
