package io

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphcore/pkg/store"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed includes the node value and metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool
	// Highlight lists node IDs drawn emphasized, e.g. a shortest path.
	// Edges between consecutive highlighted nodes are emphasized too.
	Highlight []string
}

// ToDOT converts a view to Graphviz DOT source. Directed views produce a
// digraph, undirected views a graph. Edge labels and weights are shown on
// the edge.
func ToDOT(v store.View, opts DOTOptions) string {
	kind, arrow := "digraph", "->"
	if !v.Directed() {
		kind, arrow = "graph", "--"
	}
	hot := make(map[string]int, len(opts.Highlight))
	for i, id := range opts.Highlight {
		hot[id] = i
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, id := range v.NodeIDs() {
		n, _ := v.Node(id)
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
		if _, ok := hot[id]; ok {
			attrs = append(attrs, "fillcolor=gold", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range v.Edges() {
		var attrs []string
		if l := fmtEdgeLabel(e); l != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", l))
		}
		if onPath(hot, e, v.Directed()) {
			attrs = append(attrs, "color=goldenrod", "penwidth=3")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, arrow, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.From, arrow, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func onPath(hot map[string]int, e store.Edge, directed bool) bool {
	i, ok1 := hot[e.From]
	j, ok2 := hot[e.To]
	if !ok1 || !ok2 {
		return false
	}
	return j == i+1 || (!directed && i == j+1)
}

func fmtLabel(n store.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{"value: " + n.Value.String()}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtEdgeLabel(e store.Edge) string {
	switch {
	case e.Label != "" && e.HasWeight():
		return fmt.Sprintf("%s (%g)", e.Label, e.W())
	case e.HasWeight():
		return strconv.FormatFloat(e.W(), 'g', -1, 64)
	}
	return e.Label
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the image scales from the
// origin at its natural size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
