// Package value defines the tagged value union stored as node payloads.
//
// The graph engine never interprets a Value beyond equality and ordering:
// behaviors look at numbers and strings, rules compare values for BST
// ordering and uniqueness, and everything else is carried opaquely. The
// executor that owns closures supplies a [Caller] so that user functions
// (Function values) can be invoked by custom rules and behaviors.
//
// # Kinds
//
//	None, Bool, Number, String, Symbol, Time  scalar values
//	List, Map                                 nested collections
//	Graph, Function                           opaque handles owned by the executor
//
// Values are immutable; constructors copy the slices and maps they are given.
package value

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindNumber
	KindString
	KindSymbol
	KindTime
	KindList
	KindMap
	KindGraph
	KindFunction
)

var kindNames = [...]string{
	KindNone:     "none",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindSymbol:   "symbol",
	KindTime:     "time",
	KindList:     "list",
	KindMap:      "map",
	KindGraph:    "graph",
	KindFunction: "function",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is a tagged union. The zero Value is None.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	list []Value
	m    map[string]Value
	ref  any
}

// Caller invokes a Function value with arguments. It is supplied by the
// executor; the engine never looks inside function bodies.
type Caller func(fn Value, args ...Value) (Value, error)

// None returns the none value.
func None() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int returns a numeric value from an integer.
func Int(i int) Value { return Number(float64(i)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Symbol returns a symbol value (e.g. :tree).
func Symbol(s string) Value { return Value{kind: KindSymbol, s: strings.TrimPrefix(s, ":")} }

// Time returns a time value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// List returns a list value holding a copy of items.
func List(items ...Value) Value { return Value{kind: KindList, list: slices.Clone(items)} }

// Map returns a map value holding a copy of m.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, m: maps.Clone(m)}
}

// Of converts a plain Go value into a Value. Unknown types become opaque
// String values of their printed form.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return None()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case string:
		return String(t)
	case time.Time:
		return Time(t)
	case []Value:
		return List(t...)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = Of(item)
		}
		return Value{kind: KindList, list: items}
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = Of(item)
		}
		return Value{kind: KindMap, m: m}
	case map[string]Value:
		return Map(t)
	}
	return String(fmt.Sprint(x))
}

// Interface converts v back into plain Go data: nil, bool, float64, string,
// time.Time, []any, map[string]any. Handles are returned as-is.
func (v Value) Interface() any {
	switch v.kind {
	case KindNone:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindSymbol:
		return ":" + v.s
	case KindTime:
		return v.t
	case KindList:
		items := make([]any, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	case KindMap:
		m := make(map[string]any, len(v.m))
		for k, item := range v.m {
			m[k] = item.Interface()
		}
		return m
	}
	return v.ref
}

// Graph wraps an executor-owned graph handle.
func Graph(ref any) Value { return Value{kind: KindGraph, ref: ref} }

// Function wraps an executor-owned function handle.
func Function(ref any) Value { return Value{kind: KindFunction, ref: ref} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is none.
func (v Value) IsNone() bool { return v.kind == KindNone }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsSymbol returns the symbol name without the leading colon.
func (v Value) AsSymbol() (string, bool) { return v.s, v.kind == KindSymbol }

// AsTime returns the time payload.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// AsList returns a copy of the list items.
func (v Value) AsList() ([]Value, bool) { return slices.Clone(v.list), v.kind == KindList }

// AsMap returns a copy of the map entries.
func (v Value) AsMap() (map[string]Value, bool) { return maps.Clone(v.m), v.kind == KindMap }

// Ref returns the opaque handle of a Graph or Function value.
func (v Value) Ref() any { return v.ref }

// Truthy reports whether v counts as true in a predicate position:
// false, none, 0 and the empty string are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.n != 0
	case KindString:
		return v.s != ""
	default:
		return true
	}
}

// String renders v for display and for the to_string behavior.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindString:
		return v.s
	case KindSymbol:
		return ":" + v.s
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.quoted()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := slices.Sorted(maps.Keys(v.m))
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = strconv.Quote(k) + ": " + v.m[k].quoted()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindGraph:
		return fmt.Sprintf("<graph %v>", v.ref)
	case KindFunction:
		return fmt.Sprintf("<function %v>", v.ref)
	}
	return ""
}

func (v Value) quoted() string {
	if v.kind == KindString {
		return strconv.Quote(v.s)
	}
	return v.String()
}

// Key returns a canonical string that is equal for two values exactly when
// Equal reports true (NaN aside). Indices and mapping behaviors use it as a
// map key.
func (v Value) Key() string {
	switch v.kind {
	case KindString:
		return "s:" + v.s
	case KindNumber:
		n := v.n
		if n == 0 {
			n = 0 // fold -0 into 0
		}
		return "n:" + strconv.FormatFloat(n, 'g', -1, 64)
	case KindTime:
		return "t:" + v.t.UTC().Format(time.RFC3339Nano)
	case KindGraph, KindFunction:
		return v.kind.String() + ":" + refKey(v.ref)
	default:
		return v.kind.String() + ":" + v.String()
	}
}

// refKey identifies an opaque handle. Reference-like handles compare by
// address; anything else by its printed form.
func refKey(ref any) string {
	if ref == nil {
		return "nil"
	}
	rv := reflect.ValueOf(ref)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return fmt.Sprintf("%T@%x", ref, rv.Pointer())
	}
	return fmt.Sprintf("%T:%v", ref, ref)
}
