package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matiasleandrokruk/puente/internal/domain/audit"
)

const (
	defaultRunListLimit = 25
	maxRunListLimit     = 100
)

// RunHandler exposes the persisted audit trail of past runs.
type RunHandler struct {
	audit *audit.Service
}

// NewRunHandler creates a RunHandler over the audit service.
func NewRunHandler(svc *audit.Service) *RunHandler {
	return &RunHandler{audit: svc}
}

// RunListResponse is the response body for GET /api/v1/runs.
type RunListResponse struct {
	Runs []*audit.RunRecord `json:"runs"`
}

// RunDetailResponse is the response body for GET /api/v1/runs/{id}.
type RunDetailResponse struct {
	Run         *audit.RunRecord          `json:"run"`
	Invocations []*audit.InvocationRecord `json:"invocations"`
}

// ListRuns handles GET /api/v1/runs, newest first.
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.audit.ListRuns(r.Context(), parseLimit(r, defaultRunListLimit, maxRunListLimit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

// GetRun handles GET /api/v1/runs/{id}: one run outcome plus its invocation
// trail in call order.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.audit.GetRun(r.Context(), id)
	if errors.Is(err, audit.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	invocations, err := h.audit.ListInvocations(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load invocations")
		return
	}

	writeJSON(w, http.StatusOK, RunDetailResponse{Run: run, Invocations: invocations})
}
