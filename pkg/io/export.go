package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphcore/pkg/store"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Document is the node-link serialization of a graph and, when produced by
// a collection, its governance.
type Document struct {
	ID             string         `json:"id,omitempty"`
	Kind           string         `json:"kind,omitempty"`
	Type           string         `json:"type,omitempty"`
	Undirected     bool           `json:"undirected,omitempty"`
	AllowSelfLoops bool           `json:"self_loops,omitempty"`
	Root           string         `json:"root,omitempty"`
	Rules          []Rule         `json:"rules,omitempty"`
	Hierarchy      []string       `json:"hierarchy,omitempty"`
	Behaviors      []Rule         `json:"behaviors,omitempty"`
	Meta           map[string]any `json:"meta,omitempty"`
	Nodes          []Node         `json:"nodes"`
	Edges          []Edge         `json:"edges"`
}

// Rule is a serialized rule or behavior reference. Custom rules and
// behaviors carry user code and are never serialized. Behaviors have no
// policy. Kind names the built-in behind a behavior attached under another
// name; Table and Default hold a mapping behavior's lookup table.
type Rule struct {
	Name    string                 `json:"name"`
	Kind    string                 `json:"kind,omitempty"`
	Policy  string                 `json:"policy,omitempty"`
	Args    []string               `json:"args,omitempty"`
	Table   map[string]value.Value `json:"table,omitempty"`
	Default *value.Value           `json:"default,omitempty"`
}

// Node is a serialized node.
type Node struct {
	ID    string         `json:"id"`
	Value value.Value    `json:"value"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// Edge is a serialized edge.
type Edge struct {
	From   string         `json:"from"`
	To     string         `json:"to"`
	Label  string         `json:"label,omitempty"`
	Weight *float64       `json:"weight,omitempty"`
	Props  map[string]any `json:"props,omitempty"`
}

// FromView captures the nodes and edges of v in insertion order.
func FromView(v store.View) Document {
	ids := v.NodeIDs()
	edges := v.Edges()
	doc := Document{
		Undirected: !v.Directed(),
		Nodes:      make([]Node, 0, len(ids)),
		Edges:      make([]Edge, len(edges)),
	}
	for _, id := range ids {
		n, _ := v.Node(id)
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Value: n.Value, Meta: nonEmpty(n.Meta)})
	}
	for i, e := range edges {
		doc.Edges[i] = Edge{From: e.From, To: e.To, Label: e.Label, Weight: e.Weight, Props: nonEmpty(e.Props)}
	}
	return doc
}

func nonEmpty(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return m
}

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-read with [ReadJSON] for round-trip processing.
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns the JSON encoding of doc, as written by [WriteJSON].
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}
