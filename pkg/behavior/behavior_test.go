package behavior

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	gcerrors "github.com/matzehuels/graphcore/pkg/errors"
	"github.com/matzehuels/graphcore/pkg/observability"
	"github.com/matzehuels/graphcore/pkg/value"
)

func TestBuiltinBehaviors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		in   value.Value
		want value.Value
	}{
		{"none to zero", NoneToZero(), value.None(), value.Int(0)},
		{"none to zero keeps numbers", NoneToZero(), value.Int(5), value.Int(5)},
		{"none to empty", NoneToEmpty(), value.None(), value.String("")},
		{"clamp high", ValidateRange(0, 100), value.Int(150), value.Int(100)},
		{"clamp low", ValidateRange(0, 100), value.Int(-3), value.Int(0)},
		{"clamp ignores strings", ValidateRange(0, 100), value.String("x"), value.String("x")},
		{"positive", Positive(), value.Number(-2.5), value.Number(2.5)},
		{"round", RoundToInt(), value.Number(2.5), value.Int(3)},
		{"upper", Uppercase(), value.String("abc"), value.String("ABC")},
		{"lower", Lowercase(), value.String("AbC"), value.String("abc")},
		{"trim", Trim(), value.String("  x "), value.String("x")},
		{"to number", ToNumber(), value.String(" 42 "), value.Int(42)},
		{"to number bool", ToNumber(), value.Bool(true), value.Int(1)},
		{"to string", ToString(), value.Int(7), value.String("7")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Apply(tt.in)
			if err != nil {
				t.Fatalf("Apply(%v): %v", tt.in, err)
			}
			if !value.Equal(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPipelineOrder(t *testing.T) {
	var p Pipeline
	p.Add(NoneToZero())
	double, _ := p.AddCustom("double", func(v value.Value) (value.Value, error) {
		n, _ := v.AsNumber()
		return value.Number(n * 2), nil
	})
	if !double {
		t.Fatal("AddCustom(double) = false")
	}
	p.Add(ValidateRange(0, 10))

	if got := p.Apply(value.Int(3)); !value.Equal(got, value.Int(6)) {
		t.Errorf("Apply(3) = %v, want 6", got)
	}
	if got := p.Apply(value.Int(30)); !value.Equal(got, value.Int(10)) {
		t.Errorf("Apply(30) = %v, want 10", got)
	}
	if got := p.Apply(value.None()); !value.Equal(got, value.Int(0)) {
		t.Errorf("Apply(none) = %v, want 0", got)
	}
	if got := p.Names(); !slices.Equal(got, []string{"double", "none_to_zero", "validate_range"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestPipelineAddIsIdempotent(t *testing.T) {
	var p Pipeline
	if !p.Add(NoneToZero()) || p.Add(NoneToZero()) {
		t.Error("Add should succeed once per name")
	}
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
	if _, err := p.AddCustom("Bad Name", nil); !gcerrors.Is(err, gcerrors.ErrCodeUnknownRule) {
		t.Errorf("AddCustom(bad name) error = %v", err)
	}
}

func TestPipelineConflicts(t *testing.T) {
	var p Pipeline
	p.Add(ValidateRange(0, 10))
	if added, err := p.AddMapping(map[string]value.Value{"a": value.String("b")}, value.None(), false); !added || err != nil {
		t.Fatalf("AddMapping = %v, %v", added, err)
	}
	if err := p.Conflict(ValidateRange(0, 10)); err != nil {
		t.Errorf("same range reported as conflict: %v", err)
	}

	tests := []struct {
		name string
		spec Spec
	}{
		{"other range", ValidateRange(5, 6)},
		{"other mapping", Mapping(map[string]value.Value{"a": value.String("c")})},
		{"mapping gains default", MappingWithDefault(map[string]value.Value{"a": value.String("b")}, value.Int(0))},
		{"custom reuses name", Custom("mapping", func(v value.Value) (value.Value, error) { return v, nil })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Conflict(tt.spec); !gcerrors.Is(err, gcerrors.ErrCodeInvalidInput) {
				t.Errorf("Conflict(%s) = %v, want INVALID_INPUT", tt.spec, err)
			}
		})
	}

	if _, err := p.AddMapping(map[string]value.Value{"x": value.Int(1)}, value.None(), false); err == nil {
		t.Error("second AddMapping under the same name succeeded")
	}
	if !p.Add(ValidateRange(5, 6).As("narrow")) {
		t.Fatal("Add(narrow) = false")
	}
	if got := p.Apply(value.Int(9)); !value.Equal(got, value.Int(6)) {
		t.Errorf("Apply(9) = %v, want 6", got)
	}
	if got := p.Names(); !slices.Equal(got, []string{"mapping", "narrow", "validate_range"}) {
		t.Errorf("Names = %v", got)
	}
}

type recordingBehaviorHooks struct {
	observability.NoopBehaviorHooks
	failed []string
}

func (h *recordingBehaviorHooks) OnFailure(name string, err error) {
	h.failed = append(h.failed, name)
}

func TestFailSoft(t *testing.T) {
	hooks := &recordingBehaviorHooks{}
	observability.SetBehaviorHooks(hooks)
	defer observability.Reset()

	var p Pipeline
	p.Add(Custom("plus_one", func(v value.Value) (value.Value, error) {
		n, ok := v.AsNumber()
		if !ok {
			return v, errors.New("not a number")
		}
		return value.Number(n + 1), nil
	}))
	p.Add(Custom("broken", func(value.Value) (value.Value, error) {
		return value.None(), errors.New("boom")
	}))
	p.Add(Custom("panics", func(value.Value) (value.Value, error) {
		panic("bad transform")
	}))
	p.Add(ToNumber())

	got := p.Apply(value.Int(1))
	if !value.Equal(got, value.Int(2)) {
		t.Errorf("Apply(1) = %v, want 2 (failures keep the prior value)", got)
	}
	if want := []string{"broken", "panics"}; !slices.Equal(hooks.failed, want) {
		t.Errorf("failures = %v, want %v", hooks.failed, want)
	}

	// Every behavior fails on a non-numeric string, so it comes out as is.
	hooks.failed = nil
	if got := p.Apply(value.String("abc")); !value.Equal(got, value.String("abc")) {
		t.Errorf("Apply(abc) = %v, want abc", got)
	}
	if want := []string{"plus_one", "broken", "panics", "to_number"}; !slices.Equal(hooks.failed, want) {
		t.Errorf("failures = %v, want %v", hooks.failed, want)
	}
}

func TestConditional(t *testing.T) {
	isNeg := func(v value.Value) (bool, error) {
		n, ok := v.AsNumber()
		if !ok {
			return false, errors.New("not a number")
		}
		return n < 0, nil
	}
	negate := func(v value.Value) (value.Value, error) {
		n, _ := v.AsNumber()
		return value.Number(-n), nil
	}
	tag := func(v value.Value) (value.Value, error) {
		return value.String("ok:" + v.String()), nil
	}

	tests := []struct {
		name     string
		fallback Transform
		in       value.Value
		want     value.Value
	}{
		{"true branch", nil, value.Int(-4), value.Int(4)},
		{"false branch without fallback", nil, value.Int(4), value.Int(4)},
		{"false branch with fallback", tag, value.Int(4), value.String("ok:4")},
		{"predicate error keeps value", tag, value.String("x"), value.String("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Pipeline
			if _, err := p.AddConditional("abs_or_tag", isNeg, negate, tt.fallback); err != nil {
				t.Fatal(err)
			}
			if got := p.Apply(tt.in); !value.Equal(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConditionalSeesTransformedValue(t *testing.T) {
	var p Pipeline
	p.Add(NoneToZero())
	_, _ = p.AddConditional("zero_to_one",
		func(v value.Value) (bool, error) { return value.Equal(v, value.Int(0)), nil },
		func(value.Value) (value.Value, error) { return value.Int(1), nil },
		nil)
	if got := p.Apply(value.None()); !value.Equal(got, value.Int(1)) {
		t.Errorf("Apply(none) = %v, want 1", got)
	}
}

func TestMappingRoundTrip(t *testing.T) {
	table := map[string]value.Value{
		"red":   value.Int(1),
		"green": value.Int(2),
		"1":     value.String("one"),
	}
	def := value.Symbol("unknown")
	s := MappingWithDefault(table, def)

	for k, want := range table {
		if got, _ := s.Apply(value.String(k)); !value.Equal(got, want) {
			t.Errorf("Apply(%q) = %v, want %v", k, got, want)
		}
	}
	// Keys are untyped: numbers and symbols look up their printed form.
	for _, k := range []value.Value{value.Int(1), value.Symbol("1")} {
		if got, _ := s.Apply(k); !value.Equal(got, value.String("one")) {
			t.Errorf("Apply(%v) = %v, want one", k, got)
		}
	}
	for _, k := range []string{"blue", "", "RED"} {
		if got, _ := s.Apply(value.String(k)); !value.Equal(got, def) {
			t.Errorf("Apply(%q) = %v, want default %v", k, got, def)
		}
	}

	noDefault := Mapping(table)
	if got, _ := noDefault.Apply(value.String("blue")); !value.Equal(got, value.String("blue")) {
		t.Errorf("Apply(blue) without default = %v, want blue", got)
	}
}

func TestIdempotence(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	specs := []Spec{ValidateRange(-10, 10), ToNumber(), ToString(), RoundToInt(), Positive(), Trim(), NoneToZero()}
	inputs := []value.Value{value.None(), value.String(" 12 "), value.String("abc"), value.Bool(false)}
	for range 50 {
		inputs = append(inputs, value.Number(r.Float64()*100-50))
	}

	for _, s := range specs {
		var p Pipeline
		p.Add(s)
		for _, in := range inputs {
			once := p.Apply(in)
			twice := p.Apply(once)
			if !value.Equal(once, twice) {
				t.Errorf("%s: apply(apply(%v)) = %v, apply(%v) = %v", s.Name, in, twice, in, once)
			}
		}
	}
}

func TestParse(t *testing.T) {
	if s, err := Parse(":none_to_zero"); err != nil || s.Kind != KindNoneToZero {
		t.Errorf("Parse(:none_to_zero) = %+v, %v", s, err)
	}
	s, err := Parse("validate_range", value.Int(0), value.Int(5))
	if err != nil || s.Min != 0 || s.Max != 5 {
		t.Errorf("Parse(validate_range) = %+v, %v", s, err)
	}
	if _, err := Parse("validate_range", value.Int(5), value.Int(0)); !gcerrors.Is(err, gcerrors.ErrCodeInvalidInput) {
		t.Errorf("inverted range error = %v", err)
	}
	if _, err := Parse("teleport"); !gcerrors.Is(err, gcerrors.ErrCodeUnknownRule) {
		t.Errorf("unknown behavior error = %v", err)
	}
}

func TestRulesets(t *testing.T) {
	var p Pipeline
	p.Add(NoneToZero())
	added, err := p.AddRuleset(":non_negative")
	if err != nil {
		t.Fatalf("AddRuleset: %v", err)
	}
	if len(added) != 1 || added[0].Name != "positive" {
		t.Errorf("added = %v, want [positive]", added)
	}
	if got := p.Apply(value.Int(-3)); !value.Equal(got, value.Int(3)) {
		t.Errorf("Apply(-3) = %v, want 3", got)
	}
	if _, err := p.AddRuleset("nope"); err == nil {
		t.Error("AddRuleset(nope) should fail")
	}
	if got := RulesetNames(); !slices.Equal(got, []string{"clean_numbers", "non_negative", "normalize_text"}) {
		t.Errorf("RulesetNames = %v", got)
	}
}

func TestRemoveDoesNotUndo(t *testing.T) {
	var p Pipeline
	p.Add(Uppercase())
	v := p.Apply(value.String("a"))
	if !p.Remove("uppercase") || p.Has("uppercase") {
		t.Fatal("Remove(uppercase) failed")
	}
	if !value.Equal(v, value.String("A")) {
		t.Errorf("value changed after Remove: %v", v)
	}
	if got := p.Apply(value.String("b")); !value.Equal(got, value.String("b")) {
		t.Errorf("removed behavior still applied: %v", got)
	}
}

func TestCallAdapters(t *testing.T) {
	call := func(fn value.Value, args ...value.Value) (value.Value, error) {
		if fn.Ref() == "fail" {
			return value.None(), errors.New("executor error")
		}
		n, _ := args[0].AsNumber()
		return value.Number(n + 100), nil
	}
	tr := CallTransform(call, value.Function("add100"))
	if got, err := tr(value.Int(1)); err != nil || !value.Equal(got, value.Int(101)) {
		t.Errorf("CallTransform = %v, %v", got, err)
	}
	pred := CallPredicate(call, value.Function("fail"))
	if _, err := pred(value.Int(1)); err == nil {
		t.Error("CallPredicate should surface executor errors")
	}
}
