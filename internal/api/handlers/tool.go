package handlers

import (
	"net/http"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
)

// ToolHandler exposes the tool catalog.
type ToolHandler struct {
	registry *tool.Registry
}

// NewToolHandler creates a ToolHandler over the immutable registry.
func NewToolHandler(registry *tool.Registry) *ToolHandler {
	return &ToolHandler{registry: registry}
}

// ToolsResponse is the response body for GET /api/v1/tools.
type ToolsResponse struct {
	Tools []tool.Schema `json:"tools"`
}

// ListTools handles GET /api/v1/tools. The catalog is fixed at startup, so
// this always returns the same set in registration order.
func (h *ToolHandler) ListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ToolsResponse{Tools: h.registry.Schemas()})
}
