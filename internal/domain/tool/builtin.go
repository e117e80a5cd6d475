package tool

import (
	"database/sql"
)

// Builtin tool names.
const (
	BuiltinCalculator = "calculator"
	BuiltinSearchDocs = "search_docs"
	BuiltinWebFetch   = "web_fetch"
)

// BuiltinServices carries the infrastructure the builtin capabilities need.
type BuiltinServices struct {
	DB *sql.DB
}

// NewBuiltinRegistry builds the immutable catalog of builtin tools.
func NewBuiltinRegistry(services BuiltinServices) (*Registry, error) {
	return NewRegistry(
		Descriptor{
			Name:        BuiltinCalculator,
			Description: "Performs basic arithmetic operations (add, subtract, multiply, divide)",
			Params: []Param{
				{
					Name:        "operation",
					Description: "The arithmetic operation to perform",
					Type:        TypeString,
					Required:    true,
					Enum:        []string{"add", "subtract", "multiply", "divide"},
				},
				{Name: "a", Description: "First number", Type: TypeNumber, Required: true},
				{Name: "b", Description: "Second number", Type: TypeNumber, Required: true},
			},
			Capability: CapabilityFunc(calculate),
		},
		Descriptor{
			Name:        BuiltinSearchDocs,
			Description: "Search through local documents for information",
			Params: []Param{
				{Name: "query", Description: "Search query string", Type: TypeString, Required: true},
				{
					Name:        "max_results",
					Description: "Maximum number of results to return",
					Type:        TypeInteger,
					Default:     3,
				},
			},
			Capability: &DocSearch{db: services.DB},
		},
		Descriptor{
			Name:        BuiltinWebFetch,
			Description: "Fetch content from a URL (mocked)",
			Params: []Param{
				{
					Name:        "url",
					Description: "URL to fetch (example.com, python.org, github.com)",
					Type:        TypeString,
					Required:    true,
				},
				{
					Name:        "extract",
					Description: "What to extract from the page",
					Type:        TypeString,
					Enum:        []string{"title", "summary", "content"},
					Default:     "content",
				},
			},
			Capability: CapabilityFunc(webFetch),
		},
	)
}
