// Package errors provides structured error types for graphcore.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the store, rule engine and facades
//   - Machine-readable error codes for the method-dispatch layer
//   - User-friendly error messages naming the violated rule
//   - Error wrapping with context preservation
//
// # Error Categories
//
// Codes fall into four families:
//   - Structural: DUPLICATE_NODE, MISSING_NODE, SELF_LOOP, INVALID_NODE_ID, CROSS_GRAPH
//   - Rule: RULE_VIOLATION, UNKNOWN_RULE
//   - Behavior: BEHAVIOR_FAILED (recovered inside the behavior engine, never surfaced)
//   - Algorithm: UNREACHABLE, CYCLE_DETECTED, EMPTY_STRUCTURE, NEGATIVE_WEIGHT
//
// Structural errors and rule violations are returned with zero partial effect:
// the mutation that caused them never reached the store.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingNode, "edge endpoint %q does not exist", id)
//	if errors.Is(err, errors.ErrCodeMissingNode) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCycleDetected, origErr, "topological_sort")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"
	ErrCodeDuplicateEdge Code = "DUPLICATE_EDGE"
	ErrCodeMissingNode   Code = "MISSING_NODE"
	ErrCodeSelfLoop      Code = "SELF_LOOP"
	ErrCodeInvalidNodeID Code = "INVALID_NODE_ID"
	ErrCodeCrossGraph    Code = "CROSS_GRAPH"

	// Rule errors
	ErrCodeRuleViolation Code = "RULE_VIOLATION"
	ErrCodeUnknownRule   Code = "UNKNOWN_RULE"

	// Behavior errors
	ErrCodeBehaviorFailed Code = "BEHAVIOR_FAILED"

	// Algorithm errors
	ErrCodeUnreachable    Code = "UNREACHABLE"
	ErrCodeCycleDetected  Code = "CYCLE_DETECTED"
	ErrCodeEmptyStructure Code = "EMPTY_STRUCTURE"
	ErrCodeNegativeWeight Code = "NEGATIVE_WEIGHT"

	// Generic errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
	ErrCodeUnsupported  Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *RuleViolation with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv.Code()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv.message()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// RuleViolation reports that a mutation was rejected because the prospective
// graph state violates a structural rule.
type RuleViolation struct {
	Rule       string // Rule name, e.g. "single_root"
	Reason     string // Violated constraint in words
	Op         string // Attempted operation, e.g. "add_node"
	Suggestion string // Optional alternative operation
}

// Error implements the error interface.
func (e *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeRuleViolation, e.message())
}

func (e *RuleViolation) message() string {
	msg := fmt.Sprintf("%s rejected by rule %q: %s", e.Op, e.Rule, e.Reason)
	if e.Suggestion != "" {
		msg += " (" + e.Suggestion + ")"
	}
	return msg
}

// Code returns the error code for this error type.
func (e *RuleViolation) Code() Code {
	return ErrCodeRuleViolation
}

// AsRuleViolation returns the *RuleViolation in err's chain, or nil.
func AsRuleViolation(err error) *RuleViolation {
	var rv *RuleViolation
	if errors.As(err, &rv) {
		return rv
	}
	return nil
}
