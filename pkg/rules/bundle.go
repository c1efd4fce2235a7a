package rules

import (
	"slices"
)

// Entry is one active rule and its policy.
type Entry struct {
	Spec   Spec
	Policy Policy
}

// Bundle is the ordered rule set owned by one graph. Rules are checked in
// the order they were added.
type Bundle struct {
	entries   []Entry
	hierarchy []string
}

// NewBundle creates a bundle from entries, dropping duplicate names.
func NewBundle(entries ...Entry) *Bundle {
	b := &Bundle{}
	for _, e := range entries {
		b.Add(e.Spec, e.Policy)
	}
	return b
}

// Add appends a rule. It reports false, leaving the bundle unchanged, if a
// rule with the same name is already active.
func (b *Bundle) Add(spec Spec, policy Policy) bool {
	if b.Has(spec.Name()) {
		return false
	}
	b.entries = append(b.entries, Entry{Spec: spec, Policy: policy})
	return true
}

// Remove deletes the named rule and reports whether it was active.
func (b *Bundle) Remove(name string) bool {
	n := len(b.entries)
	b.entries = slices.DeleteFunc(b.entries, func(e Entry) bool { return e.Spec.Name() == name })
	return len(b.entries) != n
}

// Has reports whether the named rule is active.
func (b *Bundle) Has(name string) bool {
	return slices.ContainsFunc(b.entries, func(e Entry) bool { return e.Spec.Name() == name })
}

// Get returns the named entry.
func (b *Bundle) Get(name string) (Entry, bool) {
	i := slices.IndexFunc(b.entries, func(e Entry) bool { return e.Spec.Name() == name })
	if i < 0 {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Names returns active rule names sorted alphabetically.
func (b *Bundle) Names() []string {
	names := make([]string, len(b.entries))
	for i, e := range b.entries {
		names[i] = e.Spec.Name()
	}
	slices.Sort(names)
	return names
}

// Entries returns the active rules in check order.
func (b *Bundle) Entries() []Entry { return slices.Clone(b.entries) }

// Len returns the number of active rules.
func (b *Bundle) Len() int { return len(b.entries) }

// Clear removes every rule. The hierarchy labels are kept.
func (b *Bundle) Clear() { b.entries = nil }

// SetHierarchy restricts root, parent and child rules to edges with the
// given labels. No labels means every edge counts.
func (b *Bundle) SetHierarchy(labels ...string) { b.hierarchy = slices.Clone(labels) }

// Hierarchy returns the hierarchy labels.
func (b *Bundle) Hierarchy() []string { return slices.Clone(b.hierarchy) }

// Clone returns an independent copy.
func (b *Bundle) Clone() *Bundle {
	return &Bundle{entries: slices.Clone(b.entries), hierarchy: slices.Clone(b.hierarchy)}
}
