package rules

import "fmt"

// Policy decides what happens when a rule fails against proposed state.
type Policy int

const (
	// Strict rejects the mutation and leaves the store untouched.
	Strict Policy = iota
	// Warn records the violation and commits anyway.
	Warn
	// IgnoreExisting rejects only violations the mutation introduces: a rule
	// that already fails on the committed state is tolerated.
	IgnoreExisting
)

func (p Policy) String() string {
	switch p {
	case Warn:
		return "warn"
	case IgnoreExisting:
		return "ignore_existing"
	}
	return "strict"
}

// ParsePolicy parses "strict", "warn" or "ignore_existing". The empty
// string means Strict.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "strict", "":
		return Strict, nil
	case "warn":
		return Warn, nil
	case "ignore_existing", "ignore-existing":
		return IgnoreExisting, nil
	}
	return Strict, fmt.Errorf("unknown rule policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler so policies can be
// written as strings in TOML ruleset files.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
