package rules

import (
	"slices"

	"github.com/matzehuels/graphcore/pkg/store"
)

// hierarchyView hides edges whose label is not a hierarchy label.
type hierarchyView struct {
	store.View
	labels []string
}

// Hierarchy returns v restricted to edges labelled with one of labels.
// With no labels every edge counts and v is returned as is.
func Hierarchy(v store.View, labels []string) store.View {
	if len(labels) == 0 {
		return v
	}
	return hierarchyView{View: v, labels: labels}
}

func (h hierarchyView) keep(edges []store.Edge) []store.Edge {
	return slices.DeleteFunc(edges, func(e store.Edge) bool {
		return !slices.Contains(h.labels, e.Label)
	})
}

func (h hierarchyView) Edges() []store.Edge             { return h.keep(h.View.Edges()) }
func (h hierarchyView) OutEdges(id string) []store.Edge { return h.keep(h.View.OutEdges(id)) }
func (h hierarchyView) InEdges(id string) []store.Edge  { return h.keep(h.View.InEdges(id)) }
func (h hierarchyView) EdgeCount() int                  { return len(h.Edges()) }
