// CompletionProvider interface.
// Adapters (Ollama, etc.) implement this interface so the orchestrator is
// never coupled to a specific LLM vendor.
package llm

import "context"

// CompletionProvider is the model-agnostic interface for text generation.
// The provider owns its transport-level retry policy; when Complete returns
// an error the caller must treat the model-service boundary as unreachable.
type CompletionProvider interface {
	// Complete performs a non-streaming completion.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// ModelInfo returns static metadata about the provider/model.
	ModelInfo() ModelMeta

	// HealthCheck returns nil if the provider is reachable and operational.
	HealthCheck(ctx context.Context) error
}
