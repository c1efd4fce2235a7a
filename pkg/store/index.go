package store

import (
	"slices"

	"github.com/matzehuels/graphcore/pkg/value"
)

// ValueProperty is the reserved property name that indexes the node value
// itself. Every other property name indexes the metadata key of that name.
const ValueProperty = "value"

// propIndex maps a property's canonical value key to the IDs holding it.
type propIndex struct {
	byKey map[string]map[string]struct{}
}

func (p *propIndex) clear() { p.byKey = make(map[string]map[string]struct{}) }

func propertyOf(n *Node, prop string) (value.Value, bool) {
	if prop == ValueProperty {
		return n.Value, true
	}
	raw, ok := n.Meta[prop]
	if !ok {
		return value.None(), false
	}
	return value.Of(raw), true
}

// CreateIndex registers an index on a property and populates it from the
// current nodes. Creating an existing index is a no-op.
func (s *Store) CreateIndex(prop string) {
	if _, ok := s.indexes[prop]; ok {
		return
	}
	idx := &propIndex{}
	idx.clear()
	s.indexes[prop] = idx
	for _, id := range s.order {
		s.indexNode(prop, idx, s.nodes[id])
	}
}

// DropIndex removes an index.
func (s *Store) DropIndex(prop string) { delete(s.indexes, prop) }

// HasIndex reports whether prop is indexed.
func (s *Store) HasIndex(prop string) bool {
	_, ok := s.indexes[prop]
	return ok
}

// Indexes returns the indexed property names, sorted.
func (s *Store) Indexes() []string {
	props := make([]string, 0, len(s.indexes))
	for p := range s.indexes {
		props = append(props, p)
	}
	slices.Sort(props)
	return props
}

// Lookup returns IDs of nodes whose property equals v, in insertion order.
// Without an index on prop it falls back to a scan.
func (s *Store) Lookup(prop string, v value.Value) []string {
	idx, ok := s.indexes[prop]
	if !ok {
		var ids []string
		for _, id := range s.order {
			if got, ok := propertyOf(s.nodes[id], prop); ok && value.Equal(got, v) {
				ids = append(ids, id)
			}
		}
		return ids
	}
	set := idx.byKey[v.Key()]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch {
		case s.seq[a] < s.seq[b]:
			return -1
		case s.seq[a] > s.seq[b]:
			return 1
		}
		return 0
	})
	return ids
}

func (s *Store) indexNode(prop string, idx *propIndex, n *Node) {
	v, ok := propertyOf(n, prop)
	if !ok {
		return
	}
	k := v.Key()
	set := idx.byKey[k]
	if set == nil {
		set = make(map[string]struct{})
		idx.byKey[k] = set
	}
	set[n.ID] = struct{}{}
}

func (s *Store) indexAdd(n *Node) {
	for prop, idx := range s.indexes {
		s.indexNode(prop, idx, n)
	}
}

func (s *Store) indexRemove(n *Node) {
	for prop, idx := range s.indexes {
		v, ok := propertyOf(n, prop)
		if !ok {
			continue
		}
		k := v.Key()
		if set := idx.byKey[k]; set != nil {
			delete(set, n.ID)
			if len(set) == 0 {
				delete(idx.byKey, k)
			}
		}
	}
}
