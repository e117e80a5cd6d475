// Package llm defines the model-agnostic completion provider abstraction.
// All types here are shared between the provider interface and adapters.
package llm

// CompletionRequest is the input for a non-streaming text completion.
type CompletionRequest struct {
	// Model overrides the provider default when non-empty.
	Model       string
	Prompt      string
	Temperature float32
	// JSONMode asks the backend to constrain output to a JSON document.
	// The reply is still treated as untrusted text by the caller.
	JSONMode bool
}

// CompletionResponse is the output from a non-streaming completion.
type CompletionResponse struct {
	Text       string // the raw model reply, whitespace-trimmed
	StopReason string // "stop" | "length" | "error"
}

// ModelMeta describes the model / provider identity.
type ModelMeta struct {
	ID       string // e.g. "llama3.2"
	Provider string // e.g. "ollama"
	Version  string // e.g. "v1"
}
