// Package api wires the go-chi router: public routes (/health, /auth/token)
// and JWT-protected routes (/api/v1/*).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/matiasleandrokruk/puente/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/puente/internal/api/middleware"
	"github.com/matiasleandrokruk/puente/internal/domain/audit"
	"github.com/matiasleandrokruk/puente/internal/domain/tool"
)

// Deps carries the constructed services the router exposes. Wiring happens
// in the server package; the router only declares the surface.
type Deps struct {
	Registry *tool.Registry
	Runner   handlers.Runner
	Audit    *audit.Service

	// Single configured API client for POST /auth/token.
	APIClientID         string
	APIClientSecretHash string
}

// NewRouter creates and configures the chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// ===== PUBLIC ROUTES (no auth required) =====

	// Health check — unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	tokenHandler := handlers.NewTokenHandler(deps.APIClientID, deps.APIClientSecretHash)
	r.Post("/auth/token", tokenHandler.IssueToken)

	// ===== PROTECTED ROUTES (JWT required via AuthMiddleware) =====

	askHandler := handlers.NewAskHandler(deps.Runner)
	toolHandler := handlers.NewToolHandler(deps.Registry)
	runHandler := handlers.NewRunHandler(deps.Audit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.AuthMiddleware)

		r.Post("/ask", askHandler.Ask)         // POST /api/v1/ask
		r.Get("/tools", toolHandler.ListTools) // GET  /api/v1/tools
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.ListRuns)   // GET /api/v1/runs
			r.Get("/{id}", runHandler.GetRun) // GET /api/v1/runs/{id}
		})
	})

	return r
}
