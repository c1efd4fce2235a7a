package behavior

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/value"
)

// Kind identifies a behavior variant.
type Kind int

const (
	KindNoneToZero Kind = iota
	KindNoneToEmpty
	KindValidateRange
	KindPositive
	KindRoundToInt
	KindUppercase
	KindLowercase
	KindTrim
	KindToNumber
	KindToString
	KindMapping
	KindCustom
	KindConditional
)

var kindNames = [...]string{
	KindNoneToZero:    "none_to_zero",
	KindNoneToEmpty:   "none_to_empty",
	KindValidateRange: "validate_range",
	KindPositive:      "positive",
	KindRoundToInt:    "round_to_int",
	KindUppercase:     "uppercase",
	KindLowercase:     "lowercase",
	KindTrim:          "trim",
	KindToNumber:      "to_number",
	KindToString:      "to_string",
	KindMapping:       "mapping",
	KindCustom:        "custom",
	KindConditional:   "conditional",
}

// String returns the built-in name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Transform maps a value to a new value.
type Transform func(v value.Value) (value.Value, error)

// Predicate decides which branch of a conditional behavior runs.
type Predicate func(v value.Value) (bool, error)

// Spec is one behavior. The set of kinds is closed; Custom and Conditional
// carry user functions.
type Spec struct {
	Kind Kind
	Name string

	Min, Max float64 // ValidateRange

	Table      map[string]value.Value // Mapping
	Default    value.Value            // Mapping
	HasDefault bool                   // Mapping

	Transform Transform // Custom, Conditional
	Predicate Predicate // Conditional
	Fallback  Transform // Conditional, optional
}

func NoneToZero() Spec  { return Spec{Kind: KindNoneToZero, Name: "none_to_zero"} }
func NoneToEmpty() Spec { return Spec{Kind: KindNoneToEmpty, Name: "none_to_empty"} }
func Positive() Spec    { return Spec{Kind: KindPositive, Name: "positive"} }
func RoundToInt() Spec  { return Spec{Kind: KindRoundToInt, Name: "round_to_int"} }
func Uppercase() Spec   { return Spec{Kind: KindUppercase, Name: "uppercase"} }
func Lowercase() Spec   { return Spec{Kind: KindLowercase, Name: "lowercase"} }
func Trim() Spec        { return Spec{Kind: KindTrim, Name: "trim"} }
func ToNumber() Spec    { return Spec{Kind: KindToNumber, Name: "to_number"} }
func ToString() Spec    { return Spec{Kind: KindToString, Name: "to_string"} }

// ValidateRange clamps numbers into [lo, hi].
func ValidateRange(lo, hi float64) Spec {
	return Spec{Kind: KindValidateRange, Name: "validate_range", Min: lo, Max: hi}
}

// Mapping replaces values found in table. Values missing from the table are
// left unchanged.
func Mapping(table map[string]value.Value) Spec {
	return Spec{Kind: KindMapping, Name: "mapping", Table: table}
}

// MappingWithDefault is Mapping where missing values become def.
func MappingWithDefault(table map[string]value.Value, def value.Value) Spec {
	s := Mapping(table)
	s.Default, s.HasDefault = def, true
	return s
}

// Custom wraps a user transform.
func Custom(name string, fn Transform) Spec {
	return Spec{Kind: KindCustom, Name: name, Transform: fn}
}

// Conditional applies transform when pred holds and fallback otherwise.
// A nil fallback leaves the value unchanged.
func Conditional(name string, pred Predicate, transform, fallback Transform) Spec {
	return Spec{Kind: KindConditional, Name: name, Predicate: pred, Transform: transform, Fallback: fallback}
}

// As returns s attached under another name, so that two differently
// configured mappings or ranges can share one pipeline.
func (s Spec) As(name string) Spec {
	s.Name = name
	return s
}

// Same reports whether s and o are the same behavior with the same
// parameters. Behaviors carrying user functions are never the same.
func (s Spec) Same(o Spec) bool {
	if s.Kind != o.Kind || s.Name != o.Name {
		return false
	}
	switch s.Kind {
	case KindCustom, KindConditional:
		return false
	case KindValidateRange:
		return s.Min == o.Min && s.Max == o.Max
	case KindMapping:
		return maps.EqualFunc(s.Table, o.Table, value.Equal) &&
			s.HasDefault == o.HasDefault && (!s.HasDefault || value.Equal(s.Default, o.Default))
	}
	return true
}

// String describes the behavior and its parameters.
func (s Spec) String() string {
	switch s.Kind {
	case KindValidateRange:
		return fmt.Sprintf("%s(%g, %g)", s.Name, s.Min, s.Max)
	case KindMapping:
		if s.HasDefault {
			return fmt.Sprintf("%s(%d entries, default %s)", s.Name, len(s.Table), s.Default)
		}
		return fmt.Sprintf("%s(%d entries)", s.Name, len(s.Table))
	}
	return s.Name
}

// CallTransform adapts an executor function value into a Transform.
func CallTransform(call value.Caller, fn value.Value) Transform {
	return func(v value.Value) (value.Value, error) { return call(fn, v) }
}

// CallPredicate adapts an executor function value into a Predicate. The
// result is interpreted by truthiness.
func CallPredicate(call value.Caller, fn value.Value) Predicate {
	return func(v value.Value) (bool, error) {
		out, err := call(fn, v)
		if err != nil {
			return false, err
		}
		return out.Truthy(), nil
	}
}

// MappingKey is the lookup key of v in a mapping table: strings and
// symbols by name, everything else by its printed form. Keys are therefore
// untyped: the string "1", the symbol :1 and the number 1 all look up
// table["1"], and true looks up table["true"].
func MappingKey(v value.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	if s, ok := v.AsSymbol(); ok {
		return s
	}
	return v.String()
}

// Apply runs the behavior on v. Values of a kind the behavior does not
// handle pass through unchanged.
func (s Spec) Apply(v value.Value) (value.Value, error) {
	switch s.Kind {
	case KindNoneToZero:
		if v.IsNone() {
			return value.Int(0), nil
		}
	case KindNoneToEmpty:
		if v.IsNone() {
			return value.String(""), nil
		}
	case KindValidateRange:
		if n, ok := v.AsNumber(); ok {
			return value.Number(math.Min(math.Max(n, s.Min), s.Max)), nil
		}
	case KindPositive:
		if n, ok := v.AsNumber(); ok {
			return value.Number(math.Abs(n)), nil
		}
	case KindRoundToInt:
		if n, ok := v.AsNumber(); ok {
			return value.Number(math.Round(n)), nil
		}
	case KindUppercase:
		if str, ok := v.AsString(); ok {
			return value.String(strings.ToUpper(str)), nil
		}
	case KindLowercase:
		if str, ok := v.AsString(); ok {
			return value.String(strings.ToLower(str)), nil
		}
	case KindTrim:
		if str, ok := v.AsString(); ok {
			return value.String(strings.TrimSpace(str)), nil
		}
	case KindToNumber:
		return toNumber(v)
	case KindToString:
		if _, ok := v.AsString(); ok {
			return v, nil
		}
		return value.String(v.String()), nil
	case KindMapping:
		if out, ok := s.Table[MappingKey(v)]; ok {
			return out, nil
		}
		if s.HasDefault {
			return s.Default, nil
		}
	case KindCustom:
		if s.Transform == nil {
			return v, fmt.Errorf("behavior %q has no transform", s.Name)
		}
		return s.Transform(v)
	case KindConditional:
		if s.Predicate == nil {
			return v, fmt.Errorf("behavior %q has no predicate", s.Name)
		}
		ok, err := s.Predicate(v)
		if err != nil {
			return v, err
		}
		switch {
		case ok && s.Transform != nil:
			return s.Transform(v)
		case !ok && s.Fallback != nil:
			return s.Fallback(v)
		}
	}
	return v, nil
}

func toNumber(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindNumber:
		return v, nil
	case value.KindBool:
		if b, _ := v.AsBool(); b {
			return value.Int(1), nil
		}
		return value.Int(0), nil
	case value.KindString:
		str, _ := v.AsString()
		n, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return v, fmt.Errorf("cannot convert %q to a number", str)
		}
		return value.Number(n), nil
	}
	return v, fmt.Errorf("cannot convert %s to a number", v.Kind())
}

var fixed = map[string]func() Spec{
	"none_to_zero":  NoneToZero,
	"none_to_empty": NoneToEmpty,
	"positive":      Positive,
	"round_to_int":  RoundToInt,
	"uppercase":     Uppercase,
	"lowercase":     Lowercase,
	"trim":          Trim,
	"to_number":     ToNumber,
	"to_string":     ToString,
}

// Parse resolves a built-in behavior name. validate_range takes two
// numeric args (min, max). A leading ':' is ignored.
func Parse(name string, args ...value.Value) (Spec, error) {
	name = strings.TrimPrefix(name, ":")
	if ctor, ok := fixed[name]; ok {
		return ctor(), nil
	}
	if name == "validate_range" {
		if len(args) != 2 {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "validate_range needs min and max")
		}
		lo, ok1 := args[0].AsNumber()
		hi, ok2 := args[1].AsNumber()
		if !ok1 || !ok2 || lo > hi {
			return Spec{}, errors.New(errors.ErrCodeInvalidInput, "validate_range needs numbers with min <= max, got %s, %s", args[0], args[1])
		}
		return ValidateRange(lo, hi), nil
	}
	return Spec{}, errors.New(errors.ErrCodeUnknownRule, "unknown behavior %q", name)
}

// IsBuiltin reports whether name is a built-in behavior.
func IsBuiltin(name string) bool {
	name = strings.TrimPrefix(name, ":")
	_, ok := fixed[name]
	return ok || name == "validate_range"
}
