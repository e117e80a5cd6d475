package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matiasleandrokruk/puente/internal/api/handlers"
	"github.com/matiasleandrokruk/puente/internal/domain/agent"
	"github.com/matiasleandrokruk/puente/internal/domain/audit"
	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/infra/sqlite"
	"github.com/matiasleandrokruk/puente/pkg/auth"
)

type fixedRunner struct{ outcome *agent.Outcome }

func (f *fixedRunner) Run(_ context.Context, _ string, _ int) *agent.Outcome {
	return f.outcome
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "routes_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	registry, err := tool.NewRegistry(tool.Descriptor{
		Name:        "calculator",
		Description: "Perform basic arithmetic",
		Params: []tool.Param{
			{Name: "operation", Type: tool.TypeString, Required: true},
		},
		Capability: tool.CapabilityFunc(func(_ context.Context, _ tool.Args) (any, error) {
			return 4.0, nil
		}),
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	hash, err := auth.HashSecret("s3cret")
	if err != nil {
		t.Fatalf("hash secret: %v", err)
	}

	return NewRouter(Deps{
		Registry: registry,
		Runner: &fixedRunner{outcome: &agent.Outcome{
			RunID:      "run-1",
			Status:     agent.StatusAnswered,
			Answer:     "4",
			Iterations: 1,
		}},
		Audit:               audit.NewService(db),
		APIClientID:         "cli-client",
		APIClientSecretHash: hash,
	})
}

func obtainToken(t *testing.T, router http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/token",
		strings.NewReader(`{"clientId": "cli-client", "clientSecret": "s3cret"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("token request failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp handlers.TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return resp.Token
}

// JWT_SECRET is process-wide state, so these tests stay sequential.

func TestRouter_HealthIsPublic(t *testing.T) {
	t.Setenv("JWT_SECRET", "routes-test-secret")

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health body: %s", rec.Body.String())
	}
}

func TestRouter_APIRequiresToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "routes-test-secret")

	router := newTestRouter(t)
	for _, path := range []string{"/api/v1/tools", "/api/v1/runs"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestRouter_TokenThenAsk(t *testing.T) {
	t.Setenv("JWT_SECRET", "routes-test-secret")

	router := newTestRouter(t)
	token := obtainToken(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask",
		strings.NewReader(`{"question": "what is 2+2?"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp handlers.AskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode ask response: %v", err)
	}
	if resp.Status != "answered" || resp.Answer != "4" {
		t.Errorf("unexpected ask response: %+v", resp)
	}
}

func TestRouter_ToolsWithToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "routes-test-secret")

	router := newTestRouter(t)
	token := obtainToken(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp handlers.ToolsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode tools response: %v", err)
	}
	if len(resp.Tools) != 1 || resp.Tools[0].Name != "calculator" {
		t.Errorf("unexpected tools: %+v", resp.Tools)
	}
}
