package collection

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/graphcore/pkg/behavior"
	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/rules"
	"github.com/matzehuels/graphcore/pkg/value"
)

// AddRule attaches a rule or behavior by name with the strict policy.
//
// Names resolve in order: structural rules ("no_cycles", "max_children_2",
// or "max_children" with args), structural rulesets ("tree"), behaviors
// ("none_to_zero", "validate_range" with two numeric args) and behavior
// rulesets ("clean_numbers"). A leading ':' is ignored.
func (g *Graph) AddRule(name string, args ...string) error {
	return g.AddRuleWithPolicy(name, rules.Strict, args...)
}

// AddRuleWithPolicy is AddRule with an explicit policy for structural
// rules. Behaviors have no policy.
func (g *Graph) AddRuleWithPolicy(name string, policy rules.Policy, args ...string) error {
	name = strings.TrimPrefix(name, ":")
	if err := gcerrors.ValidateRuleName(name); err != nil {
		return err
	}

	spec, err := rules.Parse(name, args...)
	if err == nil {
		return g.AddRuleSpec(spec, policy)
	}
	if gcerrors.Is(err, gcerrors.ErrCodeInvalidInput) {
		return err
	}
	if _, ok := g.catalog().Lookup(name); ok {
		_, err := g.addRuleset(name, &policy)
		return err
	}
	if behavior.IsBuiltin(name) {
		b, err := behavior.Parse(name, behaviorArgs(args)...)
		if err != nil {
			return err
		}
		return g.AddBehavior(b)
	}
	if _, ok := behavior.Ruleset(name); ok {
		_, err := g.AddBehaviorRuleset(name)
		return err
	}
	return gcerrors.New(gcerrors.ErrCodeUnknownRule, "unknown rule or behavior %q", name)
}

func behaviorArgs(args []string) []value.Value {
	out := make([]value.Value, len(args))
	for i, a := range args {
		if n, err := strconv.ParseFloat(a, 64); err == nil {
			out[i] = value.Number(n)
		} else {
			out[i] = value.String(a)
		}
	}
	return out
}

func (g *Graph) catalog() *rules.Catalog { return rules.DefaultCatalog() }

// AddRuleSpec attaches a structural rule. A strict rule must hold for the
// current state; warn and ignore_existing rules are attached regardless,
// warn recording the violation in Warnings. Attaching an active rule again
// is a no-op.
func (g *Graph) AddRuleSpec(spec rules.Spec, policy rules.Policy) error {
	if g.rules.Has(spec.Name()) {
		return nil
	}
	if err := g.admit([]rules.Spec{spec}, policy, g.rules.Hierarchy()); err != nil {
		return err
	}
	g.rules.Add(spec, policy)
	return nil
}

// AddCustomRule attaches a user predicate over the whole graph.
func (g *Graph) AddCustomRule(name string, pred rules.Predicate, policy rules.Policy) error {
	if err := gcerrors.ValidateRuleName(name); err != nil {
		return err
	}
	if rules.IsBuiltin(name) {
		return gcerrors.New(gcerrors.ErrCodeInvalidInput, "custom rule %q shadows a built-in rule", name)
	}
	return g.AddRuleSpec(rules.Custom(name, pred), policy)
}

// AddRuleset attaches every rule of a named ruleset with the ruleset's own
// policy, as one batch: if any strict rule fails on the current state,
// none are attached. Returns the names of the rules added.
func (g *Graph) AddRuleset(name string) ([]string, error) {
	return g.addRuleset(name, nil)
}

func (g *Graph) addRuleset(name string, policy *rules.Policy) ([]string, error) {
	rs, ok := g.catalog().Lookup(name)
	if !ok {
		return nil, gcerrors.New(gcerrors.ErrCodeUnknownRule, "unknown ruleset %q", name)
	}
	p := rs.Policy
	if policy != nil {
		p = *policy
	}
	hierarchy := g.rules.Hierarchy()
	if len(rs.Hierarchy) > 0 {
		hierarchy = rs.Hierarchy
	}
	var fresh []rules.Spec
	for _, s := range rs.Specs() {
		if !g.rules.Has(s.Name()) {
			fresh = append(fresh, s)
		}
	}
	if err := g.admit(fresh, p, hierarchy); err != nil {
		return nil, err
	}
	if len(rs.Hierarchy) > 0 {
		g.rules.SetHierarchy(rs.Hierarchy...)
	}
	return rs.AddTo(g.rules, p), nil
}

// admit checks specs against the committed state before they are attached.
func (g *Graph) admit(specs []rules.Spec, policy rules.Policy, hierarchy []string) error {
	var warnings []*gcerrors.RuleViolation
	for _, s := range specs {
		r := s.Check(g.store, hierarchy)
		if r.Passed {
			continue
		}
		v := &gcerrors.RuleViolation{Rule: s.Name(), Reason: r.Reason, Op: "add_rule", Suggestion: s.Suggestion()}
		switch policy {
		case rules.Strict:
			return v
		case rules.Warn:
			g.logger.Warn("rule violated by existing state", "rule", v.Rule, "reason", r.Reason)
			warnings = append(warnings, v)
		}
	}
	g.warnings = warnings
	return nil
}

// SetHierarchy restricts root, parent and child rules to edges with the
// given labels. With no labels every edge counts.
func (g *Graph) SetHierarchy(labels ...string) { g.rules.SetHierarchy(labels...) }

// RemoveRule detaches a structural rule or a behavior by name. Values a
// behavior already transformed are not restored.
func (g *Graph) RemoveRule(name string) bool {
	name = strings.TrimPrefix(name, ":")
	if g.rules.Remove(name) {
		return true
	}
	return g.behaviors.Remove(name)
}

// HasRule reports whether a structural rule or behavior is attached.
func (g *Graph) HasRule(name string) bool {
	name = strings.TrimPrefix(name, ":")
	return g.rules.Has(name) || g.behaviors.Has(name)
}

// Rules returns the attached structural rule names, sorted.
func (g *Graph) Rules() []string { return g.rules.Names() }

// RuleEntries returns the attached structural rules with their policies,
// in check order.
func (g *Graph) RuleEntries() []rules.Entry { return g.rules.Entries() }

// ClearRules detaches every structural rule.
func (g *Graph) ClearRules() { g.rules.Clear() }

// Violations evaluates every attached rule against the committed state.
func (g *Graph) Violations() []rules.Outcome { return rules.Violations(g.rules, g.store) }

// RuleStatus evaluates every attached rule, passing or not, in check order.
func (g *Graph) RuleStatus() []rules.Outcome { return rules.CheckAll(g.rules, g.store) }

// AddBehavior attaches a behavior and applies it once to every existing
// value. If the transformed values break a rule, the behavior is not
// attached and no value changes.
func (g *Graph) AddBehavior(spec behavior.Spec) error {
	_, err := g.attach([]behavior.Spec{spec})
	return err
}

// AddCustomBehavior attaches a user transform under name.
func (g *Graph) AddCustomBehavior(name string, fn behavior.Transform) error {
	if err := gcerrors.ValidateRuleName(name); err != nil {
		return err
	}
	return g.AddBehavior(behavior.Custom(name, fn))
}

// AddConditionalBehavior attaches a conditional behavior under name. A nil
// fallback leaves values failing pred unchanged.
func (g *Graph) AddConditionalBehavior(name string, pred behavior.Predicate, transform, fallback behavior.Transform) error {
	if err := gcerrors.ValidateRuleName(name); err != nil {
		return err
	}
	return g.AddBehavior(behavior.Conditional(name, pred, transform, fallback))
}

// AddMappingBehavior attaches a mapping behavior named "mapping". Values
// missing from table become def when hasDefault is set and are kept
// otherwise. Attach further mappings with AddBehavior and [behavior.Spec.As].
func (g *Graph) AddMappingBehavior(table map[string]value.Value, def value.Value, hasDefault bool) error {
	if hasDefault {
		return g.AddBehavior(behavior.MappingWithDefault(table, def))
	}
	return g.AddBehavior(behavior.Mapping(table))
}

// AddBehaviorRuleset attaches a behavior ruleset as one batch, equivalent
// to adding its behaviors one by one in definition order.
func (g *Graph) AddBehaviorRuleset(name string) ([]string, error) {
	specs, ok := behavior.Ruleset(name)
	if !ok {
		return nil, gcerrors.New(gcerrors.ErrCodeUnknownRule, "unknown behavior ruleset %q", name)
	}
	return g.attach(specs)
}

// attach adds the specs that are not yet attached and applies them, in
// order, to every existing value within one mutation. A spec whose name is
// taken by a differently configured behavior fails the whole attach.
func (g *Graph) attach(specs []behavior.Spec) ([]string, error) {
	var fresh []behavior.Spec
	for _, s := range specs {
		if err := g.behaviors.Conflict(s); err != nil {
			return nil, err
		}
		if !g.behaviors.Has(s.Name) && !slices.ContainsFunc(fresh, func(f behavior.Spec) bool { return f.Name == s.Name }) {
			fresh = append(fresh, s)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	err := g.Batch("add_behavior", func(tx *Tx) error {
		for _, n := range g.store.Nodes() {
			v := n.Value
			for _, s := range fresh {
				v = g.behaviors.ApplySpec(s, v)
			}
			if !value.Equal(v, n.Value) {
				if err := tx.setRaw(n.ID, v); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(fresh))
	for i, s := range fresh {
		g.behaviors.Add(s)
		names[i] = s.Name
	}
	return names, nil
}

// RemoveBehavior detaches a behavior. Past transformations stay.
func (g *Graph) RemoveBehavior(name string) bool { return g.behaviors.Remove(name) }

// HasBehavior reports whether a behavior is attached.
func (g *Graph) HasBehavior(name string) bool { return g.behaviors.Has(name) }

// Behaviors returns the attached behavior names, sorted.
func (g *Graph) Behaviors() []string { return g.behaviors.Names() }

// BehaviorSpecs returns the attached behaviors in application order.
func (g *Graph) BehaviorSpecs() []behavior.Spec { return g.behaviors.Specs() }

// ClearBehaviors detaches every behavior.
func (g *Graph) ClearBehaviors() { g.behaviors.Clear() }

// Transform runs v through the attached behaviors without storing it.
func (g *Graph) Transform(v value.Value) value.Value { return g.behaviors.Apply(v) }
