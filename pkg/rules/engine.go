package rules

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/store"
)

// Report describes a validation that allowed the mutation to commit.
type Report struct {
	// Op is the attempted operation, e.g. "add_edge".
	Op string
	// Warnings are violations of warn-policy rules.
	Warnings []*errors.RuleViolation
	// Tolerated names ignore_existing rules that failed on the proposed
	// state with no finding beyond those already committed.
	Tolerated []string
	// Checked is the number of rules evaluated.
	Checked int
}

// Outcome is the result of one rule against one state.
type Outcome struct {
	Entry  Entry
	Result Result
}

// Engine validates proposed state against a rule bundle.
// The zero value is ready to use and logs to log.Default().
type Engine struct {
	Logger *log.Logger
}

func (e *Engine) logger() *log.Logger {
	if e == nil || e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// Validate runs every rule in b against the proposed state of d.
//
// Strict rules reject on failure. Warn rules are collected into the report.
// IgnoreExisting rules reject only if the proposed state has a finding
// (see [Spec.Findings]) that the committed state does not. The first rejecting rule ends validation with a
// *errors.RuleViolation naming the rule and op; d is left for the caller
// to discard.
func (e *Engine) Validate(b *Bundle, d *store.Delta, op string) (*Report, error) {
	return e.validate(b, d, op, true)
}

func (e *Engine) validate(b *Bundle, d *store.Delta, op string, emit bool) (*Report, error) {
	report := &Report{Op: op}
	if b == nil || b.Len() == 0 {
		return report, nil
	}
	proposed := d.View()
	for _, entry := range b.entries {
		report.Checked++
		r := entry.Spec.Check(proposed, b.hierarchy)
		if r.Passed {
			continue
		}

		violation := &errors.RuleViolation{
			Rule:       entry.Spec.Name(),
			Reason:     r.Reason,
			Op:         op,
			Suggestion: entry.Spec.Suggestion(),
		}
		blocked := true
		switch entry.Policy {
		case Warn:
			blocked = false
			report.Warnings = append(report.Warnings, violation)
		case IgnoreExisting:
			fresh := entry.Spec.Introduced(d.Base(), proposed, b.hierarchy)
			if len(fresh) == 0 {
				blocked = false
				report.Tolerated = append(report.Tolerated, violation.Rule)
				break
			}
			violation.Reason = introducedReason(fresh)
		}
		if emit {
			observability.Rules().OnViolation(violation.Rule, entry.Policy.String(), op, violation.Reason, blocked)
			switch {
			case blocked:
				e.logger().Debug("rule rejected mutation", "rule", violation.Rule, "op", op, "reason", violation.Reason)
			case entry.Policy == Warn:
				e.logger().Warn("rule violated", "rule", violation.Rule, "op", op, "reason", violation.Reason)
			default:
				e.logger().Debug("tolerating existing violation", "rule", violation.Rule, "op", op)
			}
		}
		if blocked {
			return report, violation
		}
	}
	return report, nil
}

func introducedReason(fresh []string) string {
	if len(fresh) == 1 {
		return "introduces " + fresh[0]
	}
	return fmt.Sprintf("introduces %s and %d more", fresh[0], len(fresh)-1)
}

// CanApply reports whether d would commit under b, and if not, why.
func (e *Engine) CanApply(b *Bundle, d *store.Delta) (bool, string) {
	if _, err := e.validate(b, d, "dry_run", false); err != nil {
		if v := errors.AsRuleViolation(err); v != nil {
			return false, v.Rule + ": " + v.Reason
		}
		return false, err.Error()
	}
	return true, ""
}

// CheckAll evaluates every rule in b against v, regardless of policy.
func CheckAll(b *Bundle, v store.View) []Outcome {
	outcomes := make([]Outcome, 0, b.Len())
	for _, entry := range b.entries {
		outcomes = append(outcomes, Outcome{Entry: entry, Result: entry.Spec.Check(v, b.hierarchy)})
	}
	return outcomes
}

// Violations returns only the failing outcomes of CheckAll.
func Violations(b *Bundle, v store.View) []Outcome {
	var failed []Outcome
	for _, o := range CheckAll(b, v) {
		if !o.Result.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}
