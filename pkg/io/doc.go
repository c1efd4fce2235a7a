// Package io provides JSON import and export for graphcore graphs, plus
// Graphviz DOT output for inspection.
//
// # Overview
//
// The engine itself never designs a persistence format; it only exposes an
// iteration surface (nodes, edges, metadata). This package is the reference
// serializer over that surface. The format is designed for:
//
//   - Snapshot and restore of a collection, including its rules and behaviors
//   - Integration with external tools that produce or consume graph data
//   - Caching of rendered artifacts keyed by the snapshot hash
//   - Round-trip preservation: export, re-import, and export again identically
//
// # JSON Format
//
// The format has two required top-level arrays and optional collection
// settings:
//
//	{
//	  "kind": "tree",
//	  "rules": [{"name": "no_cycles"}, {"name": "single_root", "policy": "warn"}],
//	  "nodes": [
//	    {"id": "a", "value": 50},
//	    {"id": "b", "value": 25, "meta": {"side": "left"}}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b", "label": "left"}
//	  ]
//	}
//
// Node values use the value package's JSON codec: plain JSON for numbers,
// strings, booleans, lists and maps, null for none, and marker objects for
// symbols and times.
//
// # Import
//
// Use [ReadJSON] to decode a [Document] from any io.Reader, or [ImportJSON]
// for a file. [Document.Store] builds a bare store from it. Collections
// restore themselves from a Document so that rules are re-validated.
//
// # Export
//
// Use [FromView] to capture nodes and edges from any store.View, then
// [WriteJSON] or [ExportJSON]. Nodes and edges keep insertion order.
//
// # DOT
//
// [ToDOT] renders a view as Graphviz DOT source and [RenderSVG] turns it
// into SVG in-process using [github.com/goccy/go-graphviz].
package io
