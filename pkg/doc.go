// Package pkg provides the core libraries for graphcore, a graph engine
// where lists, maps and trees are all governed directed graphs.
//
// # Overview
//
// Every collection is a graph of nodes and labelled edges. Structural
// rules (no cycles, single root, max children) guard every mutation, and
// behaviors (none_to_zero, uppercase, validate_range) transform incoming
// values before they are stored. The pkg directory is organized into
// three areas:
//
//  1. Core: [store], [rules], [behavior], [algo] and [collection]
//  2. Values and errors: [value], [errors], [observability]
//  3. Infrastructure: [io], [cache], [snapshotdb], [config], [buildinfo]
//
// # Architecture
//
// A mutation flows through the layers top to bottom:
//
//	collection.Graph / List / Map / Tree
//	         ↓
//	    [behavior] pipeline (transform the incoming value)
//	         ↓
//	    [store] delta (stage the change as an overlay)
//	         ↓
//	    [rules] engine (validate the proposed state)
//	         ↓
//	    [store] apply (commit, update indexes)
//
// Queries and [algo] functions read the committed store through the
// [store.View] interface, so the same algorithms run on proposed states
// during validation.
//
// # Quick Start
//
// Build a tree and watch a rule reject a second root:
//
//	t, _ := collection.NewTree(collection.Options{})
//	root, _ := t.Insert(value.String("CEO"), "")
//	t.Insert(value.String("CTO"), root)
//
//	_, err := t.Insert(value.String("rogue"), "")
//	if v := errors.AsRuleViolation(err); v != nil {
//	    fmt.Println(v.Rule) // single_root
//	}
//
// Shortest path on a weighted graph:
//
//	g, _ := collection.New(collection.Options{Type: collection.Weighted})
//	g.AddNode("a", value.None())
//	g.AddNode("b", value.None())
//	g.AddWeightedEdge("a", "b", "road", 3)
//	p, _ := g.ShortestPath("a", "b", true)
//
// # Main Packages
//
// ## Core
//
// [store] - Node and edge storage with adjacency, a label index and
// property indexes. [store.Delta] stages changes as an overlay that
// implements [store.View].
//
// [rules] - Structural rule specs, per-graph bundles, the validation
// engine with strict, warn and ignore_existing policies, and the ruleset
// catalog (tree, binary_tree, bst, dag, forest, linked_list, ...).
//
// [behavior] - Value transforms applied in attachment order.
//
// [algo] - Traversal, shortest paths, cycles, topological sort,
// components, spanning trees and centrality over any [store.View].
//
// [collection] - The governed graph and its list, map and tree facades.
//
// ## Infrastructure
//
// [io] - Node-link JSON documents and Graphviz DOT/SVG output.
//
// [cache] - Artifact and report caching keyed by snapshot hash, with
// file, Redis and null backends.
//
// [snapshotdb] - Named snapshots in MongoDB.
//
// [config] - TOML configuration, including user-defined rulesets.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/collection/...       # Specific package
//	go test -run Example ./pkg/...     # Examples only
//
// [store]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/store
// [rules]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/rules
// [behavior]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/behavior
// [algo]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/algo
// [collection]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/collection
// [value]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/value
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/observability
// [io]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/cache
// [snapshotdb]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/snapshotdb
// [config]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/config
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/buildinfo
// [store.Delta]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/store#Delta
// [store.View]: https://pkg.go.dev/github.com/matzehuels/graphcore/pkg/store#View
package pkg
