package tool

import (
	"strings"
	"testing"
)

func calculatorDescriptor() *Descriptor {
	return &Descriptor{
		Name: "calculator",
		Params: []Param{
			{Name: "operation", Type: TypeString, Required: true, Enum: []string{"add", "subtract", "multiply", "divide"}},
			{Name: "a", Type: TypeNumber, Required: true},
			{Name: "b", Type: TypeNumber, Required: true},
		},
	}
}

func TestValidate_ValidArguments_Accepted(t *testing.T) {
	t.Parallel()

	args, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "add",
		"a":         float64(234),
		"b":         float64(567),
	})
	if violation != nil {
		t.Fatalf("expected acceptance, got violation: %v", violation)
	}
	if args["operation"] != "add" || args["a"] != float64(234) || args["b"] != float64(567) {
		t.Errorf("unexpected typed args: %v", args)
	}
}

func TestValidate_AllMissingReported(t *testing.T) {
	t.Parallel()

	_, violation := Validate(calculatorDescriptor(), map[string]any{"operation": "add"})
	if violation == nil {
		t.Fatal("expected violation for missing params")
	}
	if len(violation.Missing) != 2 {
		t.Errorf("expected both missing params reported, got %v", violation.Missing)
	}
}

func TestValidate_UnknownParams_Rejected(t *testing.T) {
	t.Parallel()

	_, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "add",
		"a":         1.0,
		"b":         2.0,
		"c":         3.0,
		"verbose":   true,
	})
	if violation == nil {
		t.Fatal("expected violation for unknown params")
	}
	if len(violation.Unknown) != 2 {
		t.Errorf("expected 2 unknown params, got %v", violation.Unknown)
	}
}

func TestValidate_EnumViolation_Rejected(t *testing.T) {
	t.Parallel()

	// sqrt is not a declared operation.
	_, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "sqrt",
		"a":         16.0,
		"b":         0.0,
	})
	if violation == nil {
		t.Fatal("expected violation for enum mismatch")
	}
	if len(violation.TypeErrors) != 1 || violation.TypeErrors[0].Param != "operation" {
		t.Errorf("expected one type error on operation, got %v", violation.TypeErrors)
	}
}

func TestValidate_NumericAsString_NotCoerced(t *testing.T) {
	t.Parallel()

	_, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "add",
		"a":         "234",
		"b":         567.0,
	})
	if violation == nil {
		t.Fatal("expected violation: numbers supplied as text must be rejected, never parsed")
	}
	if len(violation.TypeErrors) != 1 || violation.TypeErrors[0].Param != "a" {
		t.Errorf("expected type error on a, got %v", violation.TypeErrors)
	}
}

func TestValidate_AllDefectsReportedTogether(t *testing.T) {
	t.Parallel()

	_, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "cube",
		"a":         true,
		"extra":     1,
	})
	if violation == nil {
		t.Fatal("expected violation")
	}
	if len(violation.Missing) != 1 || violation.Missing[0] != "b" {
		t.Errorf("expected b missing, got %v", violation.Missing)
	}
	if len(violation.Unknown) != 1 || violation.Unknown[0] != "extra" {
		t.Errorf("expected extra unknown, got %v", violation.Unknown)
	}
	if len(violation.TypeErrors) != 2 {
		t.Errorf("expected 2 type errors (enum + boolean-as-number), got %v", violation.TypeErrors)
	}
}

func TestValidate_OptionalDefault_Applied(t *testing.T) {
	t.Parallel()

	desc := &Descriptor{
		Name: "search_docs",
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true},
			{Name: "max_results", Type: TypeInteger, Default: 3},
		},
	}

	args, violation := Validate(desc, map[string]any{"query": "python"})
	if violation != nil {
		t.Fatalf("expected acceptance, got %v", violation)
	}
	if args["max_results"] != 3 {
		t.Errorf("expected default 3, got %v", args["max_results"])
	}
}

func TestValidate_IntegerParam_RejectsFraction(t *testing.T) {
	t.Parallel()

	desc := &Descriptor{
		Name: "search_docs",
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true},
			{Name: "max_results", Type: TypeInteger, Default: 3},
		},
	}

	_, violation := Validate(desc, map[string]any{"query": "x", "max_results": 2.5})
	if violation == nil {
		t.Fatal("expected violation for fractional integer")
	}

	// Integral floats are what JSON decoding yields for whole numbers.
	args, violation := Validate(desc, map[string]any{"query": "x", "max_results": float64(5)})
	if violation != nil {
		t.Fatalf("expected acceptance of integral float, got %v", violation)
	}
	if args["max_results"] != 5 {
		t.Errorf("expected int 5, got %v (%T)", args["max_results"], args["max_results"])
	}
}

func TestValidate_BooleanParam(t *testing.T) {
	t.Parallel()

	desc := &Descriptor{
		Name:   "flagged",
		Params: []Param{{Name: "verbose", Type: TypeBoolean, Required: true}},
	}

	if _, violation := Validate(desc, map[string]any{"verbose": true}); violation != nil {
		t.Errorf("expected acceptance, got %v", violation)
	}
	if _, violation := Validate(desc, map[string]any{"verbose": "true"}); violation == nil {
		t.Error("expected rejection of boolean supplied as text")
	}
}

func TestValidate_Idempotent_RevalidatingTypedArgs(t *testing.T) {
	t.Parallel()

	raw := map[string]any{"operation": "multiply", "a": 7.0, "b": 8.0}
	first, violation := Validate(calculatorDescriptor(), raw)
	if violation != nil {
		t.Fatalf("first validation failed: %v", violation)
	}

	second, violation := Validate(calculatorDescriptor(), map[string]any(first))
	if violation != nil {
		t.Fatalf("re-validation of typed args failed: %v", violation)
	}
	for k, v := range first {
		if second[k] != v {
			t.Errorf("re-validation changed %s: %v -> %v", k, v, second[k])
		}
	}
}

func TestViolation_Error_ListsEverything(t *testing.T) {
	t.Parallel()

	_, violation := Validate(calculatorDescriptor(), map[string]any{
		"operation": "sqrt",
		"extra":     1,
	})
	if violation == nil {
		t.Fatal("expected violation")
	}
	msg := violation.Error()
	for _, want := range []string{"missing required", "unknown parameters", "type errors", "calculator"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in violation message, got %q", want, msg)
		}
	}
}
