package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphcore/pkg/store"
)

// ReadJSON decodes a Document from r.
//
// The input must be a JSON object with "nodes" and "edges" arrays:
//
//	{
//	  "nodes": [{"id": "a", "value": 1}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// A node without "value" holds none. ReadJSON only checks the JSON shape;
// structural problems surface when the document is built into a store or
// restored into a collection. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// Unmarshal decodes a Document from data.
func Unmarshal(data []byte) (Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON file at path and returns the decoded Document.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Store builds a bare store from the document's nodes and edges. Rules
// and behaviors are ignored.
//
// Errors are wrapped with context describing which node or edge caused the
// problem; use errors.Is with the store sentinels to classify them.
func (d Document) Store() (*store.Store, error) {
	s := store.New(store.Options{Undirected: d.Undirected, AllowSelfLoops: d.AllowSelfLoops})
	for _, n := range d.Nodes {
		if err := s.AddNode(n.StoreNode()); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range d.Edges {
		if err := s.AddEdge(e.StoreEdge()); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return s, nil
}

// StoreNode converts n to a store node.
func (n Node) StoreNode() store.Node {
	return store.Node{ID: n.ID, Value: n.Value, Meta: n.Meta}
}

// StoreEdge converts e to a store edge.
func (e Edge) StoreEdge() store.Edge {
	return store.Edge{From: e.From, To: e.To, Label: e.Label, Weight: e.Weight, Props: e.Props}
}
