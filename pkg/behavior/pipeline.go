package behavior

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Pipeline is the ordered list of behaviors attached to one collection.
// Behaviors run in attachment order; nothing is ever reordered.
//
// Pipeline never returns behavior failures: a behavior whose predicate or
// transform errors (or panics) leaves the value as it was before that
// behavior ran, and the failure goes to the log and to
// [observability.Behavior].
type Pipeline struct {
	specs []Spec

	// Logger receives debug output for failed behaviors. Nil uses
	// log.Default().
	Logger *log.Logger
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// Add attaches a behavior. It reports false, leaving the pipeline unchanged,
// if a behavior with the same name is already attached. Callers that must
// not lose a differently configured behavior check [Pipeline.Conflict]
// first.
func (p *Pipeline) Add(s Spec) bool {
	if s.Name == "" || p.Has(s.Name) {
		return false
	}
	p.specs = append(p.specs, s)
	return true
}

// Conflict returns an INVALID_INPUT error if a behavior named s.Name is
// attached with other parameters, or carries user functions. Attaching the
// same built-in twice is not a conflict.
func (p *Pipeline) Conflict(s Spec) error {
	i := slices.IndexFunc(p.specs, func(a Spec) bool { return a.Name == s.Name })
	if i < 0 || p.specs[i].Same(s) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput,
		"behavior %q is already attached as %s; remove it first or attach under another name", s.Name, p.specs[i])
}

func (p *Pipeline) add(s Spec) (bool, error) {
	if err := p.Conflict(s); err != nil {
		return false, err
	}
	return p.Add(s), nil
}

// AddCustom attaches a user transform under name.
func (p *Pipeline) AddCustom(name string, fn Transform) (bool, error) {
	if err := errors.ValidateRuleName(name); err != nil {
		return false, err
	}
	return p.add(Custom(name, fn))
}

// AddConditional attaches a conditional behavior under name.
func (p *Pipeline) AddConditional(name string, pred Predicate, transform, fallback Transform) (bool, error) {
	if err := errors.ValidateRuleName(name); err != nil {
		return false, err
	}
	return p.add(Conditional(name, pred, transform, fallback))
}

// AddMapping attaches a mapping behavior. def is used for values missing
// from table when hasDefault is set. A second, different mapping needs its
// own name, see [Spec.As].
func (p *Pipeline) AddMapping(table map[string]value.Value, def value.Value, hasDefault bool) (bool, error) {
	if hasDefault {
		return p.add(MappingWithDefault(table, def))
	}
	return p.add(Mapping(table))
}

// AddRuleset attaches every behavior of a named behavior ruleset in
// definition order, skipping those already attached. It returns the
// attached specs.
func (p *Pipeline) AddRuleset(name string) ([]Spec, error) {
	specs, ok := Ruleset(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownRule, "unknown behavior ruleset %q", name)
	}
	var added []Spec
	for _, s := range specs {
		if p.Add(s) {
			added = append(added, s)
		}
	}
	return added, nil
}

// Has reports whether a behavior named name is attached.
func (p *Pipeline) Has(name string) bool {
	name = strings.TrimPrefix(name, ":")
	return slices.ContainsFunc(p.specs, func(s Spec) bool { return s.Name == name })
}

// Remove detaches the named behavior. Values it already transformed are
// not restored.
func (p *Pipeline) Remove(name string) bool {
	name = strings.TrimPrefix(name, ":")
	n := len(p.specs)
	p.specs = slices.DeleteFunc(p.specs, func(s Spec) bool { return s.Name == name })
	return len(p.specs) != n
}

// Clear detaches every behavior.
func (p *Pipeline) Clear() { p.specs = nil }

// Names returns attached behavior names sorted alphabetically.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.specs))
	for i, s := range p.specs {
		names[i] = s.Name
	}
	slices.Sort(names)
	return names
}

// Specs returns the attached behaviors in application order.
func (p *Pipeline) Specs() []Spec { return slices.Clone(p.specs) }

// Len returns the number of attached behaviors.
func (p *Pipeline) Len() int { return len(p.specs) }

// Apply folds v through every behavior in attachment order.
func (p *Pipeline) Apply(v value.Value) value.Value {
	for _, s := range p.specs {
		v = p.ApplySpec(s, v)
	}
	return v
}

// ApplySpec runs a single behavior with the pipeline's failure handling.
func (p *Pipeline) ApplySpec(s Spec, v value.Value) value.Value {
	out, err := safeApply(s, v)
	if err != nil {
		p.logger().Debug("behavior failed", "behavior", s.Name, "value", v.String(), "err", err)
		observability.Behavior().OnFailure(s.Name, errors.Wrap(errors.ErrCodeBehaviorFailed, err, "behavior %q", s.Name))
		return v
	}
	return out
}

func safeApply(s Spec, v value.Value) (out value.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = v, fmt.Errorf("behavior %q panicked: %v", s.Name, r)
		}
	}()
	return s.Apply(v)
}

var rulesets = map[string]func() []Spec{
	"clean_numbers":  func() []Spec { return []Spec{NoneToZero(), ToNumber()} },
	"normalize_text": func() []Spec { return []Spec{ToString(), Trim(), Lowercase()} },
	"non_negative":   func() []Spec { return []Spec{NoneToZero(), Positive()} },
}

// Ruleset returns a fresh copy of a named behavior ruleset.
func Ruleset(name string) ([]Spec, bool) {
	ctor, ok := rulesets[strings.TrimPrefix(name, ":")]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// RulesetNames lists the behavior rulesets, sorted.
func RulesetNames() []string {
	names := make([]string, 0, len(rulesets))
	for n := range rulesets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
