package tool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrInvalidDescriptor     = errors.New("invalid tool descriptor")
)

// Registry is the immutable tool catalog. It is built once at startup and
// never changes afterwards, so concurrent lookups need no synchronization.
type Registry struct {
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry builds a Registry from the given descriptors. Descriptor names
// must be unique and non-empty, and every descriptor must carry a capability.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Descriptor, len(descriptors)),
		order:  make([]string, 0, len(descriptors)),
	}
	for i := range descriptors {
		d := descriptors[i]
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
		}
		if d.Capability == nil {
			return nil, fmt.Errorf("%w: %q has no capability", ErrInvalidDescriptor, d.Name)
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrToolAlreadyRegistered, d.Name)
		}
		r.byName[d.Name] = &d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// Lookup resolves a descriptor by name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// List returns all descriptors in registration order.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Schema is the model-facing description of one tool, JSON-serializable in
// the shape the prompt embeds.
type Schema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParameterSchema describes a tool's parameter contract as a JSON object schema.
type ParameterSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema describes a single parameter.
type PropertySchema struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// Schemas returns the model-facing catalog in registration order.
func (r *Registry) Schemas() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, d := range r.List() {
		props := make(map[string]PropertySchema, len(d.Params))
		var required []string
		for _, p := range d.Params {
			props[p.Name] = PropertySchema{
				Type:        string(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
				Default:     p.Default,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		out = append(out, Schema{
			Name:        d.Name,
			Description: d.Description,
			Parameters: ParameterSchema{
				Type:       "object",
				Properties: props,
				Required:   required,
			},
		})
	}
	return out
}
