package tool

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// TypeError records one parameter whose supplied value does not satisfy the
// contract. Want describes the expectation (a primitive type or an enum set),
// Got describes what actually arrived.
type TypeError struct {
	Param string
	Want  string
	Got   string
}

func (e TypeError) String() string {
	return fmt.Sprintf("%s: want %s, got %s", e.Param, e.Want, e.Got)
}

// Violation is a full validation report. All defects found are listed, not
// just the first, so the model can correct everything in a single retry.
type Violation struct {
	Tool       string
	Missing    []string
	Unknown    []string
	TypeErrors []TypeError
}

// Error renders the violation as a single human-readable line.
func (v *Violation) Error() string {
	parts := make([]string, 0, 3)
	if len(v.Missing) > 0 {
		parts = append(parts, "missing required: "+strings.Join(v.Missing, ", "))
	}
	if len(v.Unknown) > 0 {
		parts = append(parts, "unknown parameters: "+strings.Join(v.Unknown, ", "))
	}
	if len(v.TypeErrors) > 0 {
		rendered := make([]string, 0, len(v.TypeErrors))
		for _, te := range v.TypeErrors {
			rendered = append(rendered, te.String())
		}
		parts = append(parts, "type errors: "+strings.Join(rendered, "; "))
	}
	return fmt.Sprintf("arguments for %q rejected: %s", v.Tool, strings.Join(parts, " | "))
}

// Validate checks raw model-supplied arguments against a descriptor's
// contract. It returns typed arguments on success or a Violation listing
// every defect. Values are never coerced across types: a number supplied as
// a string is rejected, not parsed — guessing at the boundary is how
// fabricated data gets in.
//
// Absent optional parameters with a declared default receive that default in
// the returned Args. Validation is deterministic and side-effect-free.
func Validate(desc *Descriptor, raw map[string]any) (Args, *Violation) {
	v := &Violation{Tool: desc.Name}

	declared := make(map[string]Param, len(desc.Params))
	for _, p := range desc.Params {
		declared[p.Name] = p
	}

	// Unrecognized names are a strict-contract failure.
	for name := range raw {
		if _, ok := declared[name]; !ok {
			v.Unknown = append(v.Unknown, name)
		}
	}
	sort.Strings(v.Unknown)

	typed := make(Args, len(desc.Params))
	for _, p := range desc.Params {
		value, present := raw[p.Name]
		if !present {
			if p.Required {
				v.Missing = append(v.Missing, p.Name)
			} else if p.Default != nil {
				typed[p.Name] = p.Default
			}
			continue
		}

		coerced, te := checkValue(p, value)
		if te != nil {
			v.TypeErrors = append(v.TypeErrors, *te)
			continue
		}
		typed[p.Name] = coerced
	}

	if len(v.Missing) > 0 || len(v.Unknown) > 0 || len(v.TypeErrors) > 0 {
		return nil, v
	}
	return typed, nil
}

// checkValue verifies a single supplied value against its parameter contract
// and returns the typed representation.
func checkValue(p Param, value any) (any, *TypeError) {
	switch p.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, &TypeError{Param: p.Name, Want: "string", Got: jsonTypeName(value)}
		}
		if len(p.Enum) > 0 && !containsString(p.Enum, s) {
			return nil, &TypeError{
				Param: p.Name,
				Want:  "one of [" + strings.Join(p.Enum, ", ") + "]",
				Got:   fmt.Sprintf("%q", s),
			}
		}
		return s, nil

	case TypeNumber:
		f, ok := asFloat(value)
		if !ok {
			return nil, &TypeError{Param: p.Name, Want: "number", Got: jsonTypeName(value)}
		}
		return f, nil

	case TypeInteger:
		f, ok := asFloat(value)
		if !ok || f != math.Trunc(f) {
			return nil, &TypeError{Param: p.Name, Want: "integer", Got: jsonTypeName(value)}
		}
		return int(f), nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, &TypeError{Param: p.Name, Want: "boolean", Got: jsonTypeName(value)}
		}
		return b, nil
	}
	return nil, &TypeError{Param: p.Name, Want: string(p.Type), Got: jsonTypeName(value)}
}

// asFloat accepts the numeric representations JSON decoding and in-process
// callers produce. Strings are deliberately excluded.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// jsonTypeName names the JSON type of a decoded value, for error reports.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", value)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
