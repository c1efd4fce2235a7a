package collection

import (
	"maps"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/graphcore/pkg/behavior"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	gio "github.com/matzehuels/graphcore/pkg/io"
	"github.com/matzehuels/graphcore/pkg/rules"
)

// Snapshot captures the graph as a serializable document: nodes and edges
// in insertion order plus every built-in rule and behavior, mappings
// included. Custom and conditional rules and behaviors hold user code and
// are left out.
func (g *Graph) Snapshot() gio.Document {
	doc := gio.FromView(g.store)
	doc.ID = g.id.String()
	doc.Kind = string(g.kind)
	doc.Type = string(g.typ)
	doc.AllowSelfLoops = g.store.AllowsSelfLoops()
	doc.Root = g.root
	doc.Hierarchy = g.rules.Hierarchy()
	if len(g.meta) > 0 {
		doc.Meta = g.GraphMeta()
	}

	for _, e := range g.rules.Entries() {
		if e.Spec.Kind == rules.KindCustom {
			continue
		}
		r := gio.Rule{Name: e.Spec.Name(), Policy: e.Policy.String()}
		if e.Spec.Kind == rules.KindEdgeLabels {
			r.Args = e.Spec.Labels
		}
		doc.Rules = append(doc.Rules, r)
	}
	for _, s := range g.behaviors.Specs() {
		if s.Kind == behavior.KindCustom || s.Kind == behavior.KindConditional {
			continue
		}
		r := gio.Rule{Name: s.Name}
		if kind := s.Kind.String(); kind != s.Name {
			r.Kind = kind
		}
		switch s.Kind {
		case behavior.KindValidateRange:
			r.Args = []string{formatFloat(s.Min), formatFloat(s.Max)}
		case behavior.KindMapping:
			r.Table = maps.Clone(s.Table)
			if s.HasDefault {
				def := s.Default
				r.Default = &def
			}
		}
		doc.Behaviors = append(doc.Behaviors, r)
	}
	return doc
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func restoreBehavior(r gio.Rule) (behavior.Spec, error) {
	kind := r.Kind
	if kind == "" {
		kind = r.Name
	}
	var spec behavior.Spec
	switch kind {
	case "mapping":
		spec = behavior.Mapping(maps.Clone(r.Table))
		if r.Default != nil {
			spec = behavior.MappingWithDefault(spec.Table, *r.Default)
		}
	default:
		var err error
		if spec, err = behavior.Parse(kind, behaviorArgs(r.Args)...); err != nil {
			return behavior.Spec{}, err
		}
	}
	if r.Name != kind {
		if err := gcerrors.ValidateRuleName(r.Name); err != nil {
			return behavior.Spec{}, err
		}
		spec = spec.As(r.Name)
	}
	return spec, nil
}

// Restore rebuilds a graph from a snapshot document. Rules and behaviors
// are attached first; nodes and edges are then loaded as one mutation, so a
// document that violates its own rules is rejected as a whole. Values are
// loaded as stored, without running behaviors again.
func Restore(doc gio.Document, opts Options) (*Graph, error) {
	kind := Kind(doc.Kind)
	switch kind {
	case "":
		kind = KindGraph
	case KindGraph, KindList, KindMap, KindTree:
	default:
		return nil, gcerrors.New(gcerrors.ErrCodeInvalidInput, "unknown collection kind %q", doc.Kind)
	}
	if doc.Type != "" {
		opts.Type = Type(doc.Type)
	} else if doc.Undirected {
		opts.Type = Undirected
	}
	opts.AllowSelfLoops = opts.AllowSelfLoops || doc.AllowSelfLoops
	opts.Ruleset = ""

	g, err := newGraph(kind, opts)
	if err != nil {
		return nil, err
	}
	if id, err := uuid.Parse(doc.ID); err == nil {
		g.id = id
	}
	for k, v := range doc.Meta {
		g.SetGraphMeta(k, v)
	}

	g.rules.SetHierarchy(doc.Hierarchy...)
	for _, r := range doc.Rules {
		spec, err := rules.Parse(r.Name, r.Args...)
		if err != nil {
			return nil, err
		}
		policy := rules.Strict
		if r.Policy != "" {
			if policy, err = rules.ParsePolicy(r.Policy); err != nil {
				return nil, err
			}
		}
		g.rules.Add(spec, policy)
	}
	for _, r := range doc.Behaviors {
		spec, err := restoreBehavior(r)
		if err != nil {
			return nil, err
		}
		g.behaviors.Add(spec)
	}

	err = g.Batch("restore", func(tx *Tx) error {
		for _, n := range doc.Nodes {
			if err := gcerrors.ValidateNodeID(n.ID); err != nil {
				return err
			}
			if err := tx.d.AddNode(n.StoreNode()); err != nil {
				return structural(tx.op, err)
			}
		}
		for _, e := range doc.Edges {
			if err := tx.AddEdge(e.StoreEdge()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if doc.Root != "" {
		if err := g.SetRoot(doc.Root); err != nil {
			return nil, err
		}
	}
	return g, nil
}
