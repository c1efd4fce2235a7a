package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewAndWrap(t *testing.T) {
	err := New(ErrCodeMissingNode, "edge endpoint %q does not exist", "b")
	if got, want := err.Error(), `MISSING_NODE: edge endpoint "b" does not exist`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("cycle a -> b -> a")
	wrapped := Wrap(ErrCodeCycleDetected, cause, "topological_sort")
	if wrapped.Code != ErrCodeCycleDetected || wrapped.Cause != cause {
		t.Errorf("Wrap() = %+v", wrapped)
	}
	if errors.Unwrap(wrapped) != cause || !errors.Is(wrapped, cause) {
		t.Error("wrapped error does not unwrap to its cause")
	}
}

func TestCodeExtraction(t *testing.T) {
	violation := &RuleViolation{Rule: "no_cycles", Reason: "cycle a, b", Op: "add_edge"}
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"structural", New(ErrCodeDuplicateNode, "node %q exists", "a"), ErrCodeDuplicateNode, `node "a" exists`},
		{"outer code wins", Wrap(ErrCodeUnreachable, New(ErrCodeInvalidInput, "inner"), "dijkstra"), ErrCodeUnreachable, "dijkstra"},
		{"through fmt", fmt.Errorf("restore: %w", New(ErrCodeSelfLoop, "a -> a")), ErrCodeSelfLoop, "a -> a"},
		{"violation", violation, ErrCodeRuleViolation, violation.message()},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if GetCode(nil) != "" || Is(nil, ErrCodeInvalidInput) {
		t.Error("nil error should carry no code")
	}
}

func TestRuleViolation(t *testing.T) {
	rv := &RuleViolation{
		Rule:       "single_root",
		Reason:     "graph has 2 roots (50, x), want exactly 1",
		Op:         "add_node",
		Suggestion: "attach the node under an existing parent",
	}

	want := `RULE_VIOLATION: add_node rejected by rule "single_root": graph has 2 roots (50, x), want exactly 1 (attach the node under an existing parent)`
	if rv.Error() != want {
		t.Errorf("Error() = %v, want %v", rv.Error(), want)
	}

	wrapped := fmt.Errorf("insert: %w", rv)
	if !Is(wrapped, ErrCodeRuleViolation) {
		t.Error("Is(wrapped, ErrCodeRuleViolation) = false, want true")
	}
	if GetCode(wrapped) != ErrCodeRuleViolation {
		t.Errorf("GetCode() = %v, want %v", GetCode(wrapped), ErrCodeRuleViolation)
	}
	if got := AsRuleViolation(wrapped); got != rv {
		t.Errorf("AsRuleViolation() = %v, want %v", got, rv)
	}
	if got := UserMessage(wrapped); got != rv.message() {
		t.Errorf("UserMessage() = %v, want %v", got, rv.message())
	}
	if AsRuleViolation(New(ErrCodeSelfLoop, "x")) != nil {
		t.Error("AsRuleViolation() on structural error should be nil")
	}
}
