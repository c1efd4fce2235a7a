package rules

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphcore/pkg/errors"
)

// Ruleset is an immutable named rule template. Instantiate clones the spec
// list, so graphs built from the same ruleset never share a bundle.
type Ruleset struct {
	Name        string
	Description string
	Policy      Policy
	Hierarchy   []string
	specs       []Spec
}

// NewRuleset creates a ruleset from specs.
func NewRuleset(name, description string, policy Policy, specs ...Spec) Ruleset {
	return Ruleset{Name: name, Description: description, Policy: policy, specs: slices.Clone(specs)}
}

// Specs returns a copy of the ruleset's rules in definition order.
func (r Ruleset) Specs() []Spec { return slices.Clone(r.specs) }

// RuleNames returns the rule names in definition order.
func (r Ruleset) RuleNames() []string {
	names := make([]string, len(r.specs))
	for i, s := range r.specs {
		names[i] = s.Name()
	}
	return names
}

// Instantiate builds a fresh bundle holding the ruleset's rules.
func (r Ruleset) Instantiate() *Bundle {
	b := &Bundle{}
	r.AddTo(b, r.Policy)
	b.SetHierarchy(r.Hierarchy...)
	return b
}

// AddTo appends the ruleset's rules to b in definition order with the given
// policy. Rules already in b are skipped. Returns the names added.
func (r Ruleset) AddTo(b *Bundle, policy Policy) []string {
	var added []string
	for _, s := range r.specs {
		if b.Add(s, policy) {
			added = append(added, s.Name())
		}
	}
	return added
}

func builtinRulesets() map[string]Ruleset {
	tree := []Spec{NoCycles(), SingleRoot(), MaxParents(1)}
	binary := append(slices.Clone(tree), MaxChildren(2))
	return map[string]Ruleset{
		"tree":        NewRuleset("tree", "rooted tree: one root, one parent per node, no cycles", Strict, tree...),
		"binary_tree": NewRuleset("binary_tree", "tree with at most two children per node", Strict, binary...),
		"bst":         NewRuleset("bst", "binary search tree ordered by node value", Strict, append(slices.Clone(binary), BinaryOrdered())...),
		"dag":         NewRuleset("dag", "directed acyclic graph", Strict, AcyclicDirected()),
		"forest":      NewRuleset("forest", "disjoint trees", Strict, NoCycles(), MaxParents(1)),
		"linked_list": NewRuleset("linked_list", "single chain of nodes", Strict, NoCycles(), MaxChildren(1), MaxParents(1), SingleRoot()),
		"undirected":  NewRuleset("undirected", "simple undirected graph", Strict, NoSelfLoops()),
		"weighted":    NewRuleset("weighted", "every edge carries a non-negative weight", Strict, Weighted(), NonNegativeWeights()),
	}
}

// Catalog holds named rulesets: the built-ins plus any registered at
// runtime. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	rulesets map[string]Ruleset
}

// NewCatalog returns a catalog holding the built-in rulesets.
func NewCatalog() *Catalog {
	return &Catalog{rulesets: builtinRulesets()}
}

var defaultCatalog = NewCatalog()

// DefaultCatalog returns the process-wide catalog used by [Lookup].
func DefaultCatalog() *Catalog { return defaultCatalog }

// Lookup finds a ruleset by name in the default catalog. A leading ':' is
// ignored, so ":tree" and "tree" are the same.
func Lookup(name string) (Ruleset, bool) { return defaultCatalog.Lookup(name) }

// Rulesets lists the default catalog sorted by name.
func Rulesets() []Ruleset { return defaultCatalog.List() }

// Lookup finds a ruleset by name.
func (c *Catalog) Lookup(name string) (Ruleset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rs, ok := c.rulesets[strings.TrimPrefix(name, ":")]
	return rs, ok
}

// List returns all rulesets sorted by name.
func (c *Catalog) List() []Ruleset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := slices.Sorted(maps.Keys(c.rulesets))
	out := make([]Ruleset, len(names))
	for i, n := range names {
		out[i] = c.rulesets[n]
	}
	return out
}

// Register adds a ruleset. Built-in names cannot be replaced.
func (c *Catalog) Register(rs Ruleset) error {
	if _, builtin := builtinRulesets()[rs.Name]; builtin {
		return errors.New(errors.ErrCodeInvalidInput, "ruleset %q is built in and cannot be redefined", rs.Name)
	}
	if err := errors.ValidateRuleName(rs.Name); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rulesets[rs.Name] = rs
	return nil
}

// RulesetFile is the TOML layout of user ruleset definitions:
//
//	[rulesets.org_chart]
//	description = "reporting lines"
//	rules = ["single_root", "max_children_8", "no_cycles"]
//	policy = "strict"
//	hierarchy = ["reports_to"]
type RulesetFile struct {
	Rulesets map[string]RulesetDef `toml:"rulesets"`
}

// RulesetDef is one ruleset in a [RulesetFile].
type RulesetDef struct {
	Description string   `toml:"description"`
	Rules       []string `toml:"rules"`
	Policy      Policy   `toml:"policy"`
	Hierarchy   []string `toml:"hierarchy"`
	// Labels feeds an edge_labels rule when "edge_labels" is listed.
	Labels []string `toml:"labels"`
}

// Build resolves the rule names of d into a Ruleset.
func (d RulesetDef) Build(name string) (Ruleset, error) {
	specs := make([]Spec, 0, len(d.Rules))
	for _, rule := range d.Rules {
		var args []string
		if strings.TrimPrefix(rule, ":") == "edge_labels" {
			args = d.Labels
		}
		s, err := Parse(rule, args...)
		if err != nil {
			return Ruleset{}, fmt.Errorf("ruleset %q: %w", name, err)
		}
		specs = append(specs, s)
	}
	rs := NewRuleset(name, d.Description, d.Policy, specs...)
	rs.Hierarchy = slices.Clone(d.Hierarchy)
	return rs, nil
}

// DecodeRulesets parses TOML ruleset definitions, sorted by name.
func DecodeRulesets(r io.Reader) ([]Ruleset, error) {
	var file RulesetFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode rulesets")
	}
	return file.Build()
}

// Build resolves every definition in f, sorted by name.
func (f RulesetFile) Build() ([]Ruleset, error) {
	out := make([]Ruleset, 0, len(f.Rulesets))
	for _, name := range slices.Sorted(maps.Keys(f.Rulesets)) {
		rs, err := f.Rulesets[name].Build(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, nil
}

// LoadRulesets reads TOML definitions from r into the default catalog.
func LoadRulesets(r io.Reader) ([]Ruleset, error) { return defaultCatalog.LoadRulesets(r) }

// LoadRulesets reads TOML definitions from r and registers them in c.
func (c *Catalog) LoadRulesets(r io.Reader) ([]Ruleset, error) {
	rulesets, err := DecodeRulesets(r)
	if err != nil {
		return nil, err
	}
	for _, rs := range rulesets {
		if err := c.Register(rs); err != nil {
			return nil, err
		}
	}
	return rulesets, nil
}
