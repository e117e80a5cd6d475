package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matiasleandrokruk/puente/internal/domain/agent"
)

// Runner is the orchestrator contract consumed by AskHandler.
type Runner interface {
	Run(ctx context.Context, question string, maxIterationsOverride int) *agent.Outcome
}

// AskHandler drives one conversation run per request.
type AskHandler struct {
	runner Runner
}

// NewAskHandler creates an AskHandler backed by the given orchestrator.
func NewAskHandler(runner Runner) *AskHandler {
	return &AskHandler{runner: runner}
}

// AskRequest is the request body for POST /api/v1/ask.
type AskRequest struct {
	Question string `json:"question"`
	// MaxIterations overrides the configured iteration bound when positive.
	MaxIterations int `json:"maxIterations,omitempty"`
}

// TranscriptEntry is one transcript element in the response.
type TranscriptEntry struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// AskResponse is the rendered outcome of one run.
type AskResponse struct {
	RunID      string            `json:"runId"`
	Status     string            `json:"status"`
	Answer     string            `json:"answer"`
	Iterations int               `json:"iterations"`
	ToolCalls  int               `json:"toolCalls"`
	Transcript []TranscriptEntry `json:"transcript"`
}

// Ask handles POST /api/v1/ask.
//
// Response codes:
//   - 200 OK: run reached answered, refused or iteration_limit_exceeded
//   - 400 Bad Request: invalid JSON or empty question
//   - 502 Bad Gateway: model service unreachable (fatal_error)
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	out := h.runner.Run(r.Context(), req.Question, req.MaxIterations)

	status := http.StatusOK
	if out.Status == agent.StatusFatalError {
		status = http.StatusBadGateway
	}

	transcript := make([]TranscriptEntry, 0, len(out.Transcript))
	for _, e := range out.Transcript {
		transcript = append(transcript, TranscriptEntry{Kind: string(e.Kind), Text: e.Text})
	}

	writeJSON(w, status, AskResponse{
		RunID:      out.RunID,
		Status:     string(out.Status),
		Answer:     out.Answer,
		Iterations: out.Iterations,
		ToolCalls:  out.ToolCalls,
		Transcript: transcript,
	})
}
