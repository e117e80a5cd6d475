// Package tool holds the capability catalog and the two boundaries that
// guard it: argument validation and failure-isolated execution.
//
// Design:
//   - Descriptors are built once at startup and never mutated; the registry
//     needs no locking and lookups are pure functions.
//   - Raw arguments from the model stay untyped until the validator accepts
//     them; nothing downstream re-inspects unvalidated values.
//   - The executor is the only caller of a capability's Invoke, and it never
//     lets a capability fault escape as anything but a structured Result.
package tool

import "context"

// ParamType is the primitive type a parameter value must satisfy.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeInteger ParamType = "integer"
	TypeBoolean ParamType = "boolean"
)

// Param describes one named parameter of a tool contract.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	// Enum, when non-empty, restricts a string parameter to these values.
	Enum []string
	// Default is substituted when an optional parameter is absent.
	Default any
}

// Args is a typed argument mapping produced by the validator.
type Args map[string]any

// Capability is the externally implemented behavior behind a descriptor.
// Invoke receives arguments that already passed contract validation; any
// error it returns is a domain error, not a transport fault.
type Capability interface {
	Invoke(ctx context.Context, args Args) (any, error)
}

// CapabilityFunc adapts a plain function to the Capability interface.
type CapabilityFunc func(ctx context.Context, args Args) (any, error)

func (f CapabilityFunc) Invoke(ctx context.Context, args Args) (any, error) {
	return f(ctx, args)
}

// Descriptor is one entry of the tool catalog.
type Descriptor struct {
	Name        string
	Description string
	// Params is ordered; typed arguments are assembled in this order.
	Params     []Param
	Capability Capability
}

// Invocation is a proposed call as received from the model, before validation.
type Invocation struct {
	Tool    string
	RawArgs map[string]any
}
