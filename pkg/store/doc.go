// Package store holds the nodes and edges of one graph.
//
// A [Store] keeps nodes and edges in insertion order with adjacency lists
// for both directions, per-label edge counts and optional property indices.
// It is the only place graph state lives; the collection facades, rules
// and algorithms all read it through the [View] interface.
//
// # Transactions
//
// Mutations that must be validated go through a [Delta]:
//
//	d := s.Begin()
//	d.AddNode(store.Node{ID: "x", Value: value.Int(1)})
//	d.AddEdge(store.Edge{From: "root", To: "x", Label: "child"})
//	// inspect d.View(), run rules on it...
//	err := s.Apply(d)
//
// The delta's [Overlay] presents base plus staged changes without copying
// the base. Apply replays the ops; a delta built against an older
// generation is rejected with [ErrStaleDelta].
//
// # Directedness
//
// In undirected stores [Store.OutEdges] and [Store.InEdges] both return
// every incident edge, oriented away from (respectively towards) the
// queried node, so traversal code works unchanged for both modes.
package store
