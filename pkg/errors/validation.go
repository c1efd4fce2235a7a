package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node ids and edge labels.
const maxIDLength = 256

// ValidateNodeID validates a node identifier before it enters a store.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 characters
//
// Everything else, including spaces and unicode, is allowed because node ids
// double as map keys in the map facade.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidNodeID, "node id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidNodeID, "node id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNodeID, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabel validates an edge label. The empty label is allowed and
// means "unlabelled"; labels may not contain whitespace or control characters.
func ValidateLabel(label string) error {
	if len(label) > maxIDLength {
		return New(ErrCodeInvalidInput, "edge label too long (max %d characters)", maxIDLength)
	}
	if strings.IndexFunc(label, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return New(ErrCodeInvalidInput, "edge label %q contains whitespace or control characters", label)
	}
	return nil
}

// ValidateRuleName validates a rule or behavior name.
// Names are lower snake case, optionally ending in a numeric parameter
// (e.g. "max_children_2").
func ValidateRuleName(name string) error {
	if name == "" {
		return New(ErrCodeUnknownRule, "rule name cannot be empty")
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || unicode.IsDigit(r) || (unicode.IsLetter(r) && unicode.IsLower(r))) {
			return New(ErrCodeUnknownRule, "rule name %q must be lower snake case", name)
		}
	}
	return nil
}
