// Package server assembles the application: database, event bus, audit
// recorder, model provider, tool registry, orchestrator and the HTTP router.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/go-chi/chi/v5"

	"github.com/matiasleandrokruk/puente/internal/api"
	"github.com/matiasleandrokruk/puente/internal/domain/agent"
	"github.com/matiasleandrokruk/puente/internal/domain/audit"
	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/infra/config"
	"github.com/matiasleandrokruk/puente/internal/infra/eventbus"
	"github.com/matiasleandrokruk/puente/internal/infra/llm"
	"github.com/matiasleandrokruk/puente/internal/infra/sqlite"
)

// App holds the wired components of a running puente instance. It is the
// single composition root shared by the CLI, the HTTP daemon and the MCP
// server.
type App struct {
	Config       config.Config
	DB           *sql.DB
	Bus          *eventbus.Bus
	Audit        *audit.Service
	Registry     *tool.Registry
	Executor     *tool.Executor
	Orchestrator *agent.Orchestrator

	recorder  *audit.Recorder
	cancelRec context.CancelFunc
}

// NewApp builds the full component graph from cfg. Trace output (the
// conversation progress lines) goes to trace; pass io.Discard to silence it.
func NewApp(cfg config.Config, trace io.Writer) (*App, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	bus := eventbus.New()
	auditSvc := audit.NewService(db)

	provider, err := buildProvider(cfg)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}

	registry, err := tool.NewBuiltinRegistry(tool.BuiltinServices{DB: db})
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	executor := tool.NewExecutor(registry, cfg.ToolTimeoutDuration(), bus)
	orchestrator := agent.NewOrchestrator(registry, executor, provider, cfg.MaxIterations, bus, trace)

	recorder := audit.NewRecorder(auditSvc, bus)
	recCtx, cancelRec := context.WithCancel(context.Background())
	recorder.Start(recCtx)

	return &App{
		Config:       cfg,
		DB:           db,
		Bus:          bus,
		Audit:        auditSvc,
		Registry:     registry,
		Executor:     executor,
		Orchestrator: orchestrator,
		recorder:     recorder,
		cancelRec:    cancelRec,
	}, nil
}

// buildProvider constructs the configured model provider behind the router.
func buildProvider(cfg config.Config) (llm.CompletionProvider, error) {
	ollama := llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaModel)
	ollama.SetTimeout(cfg.ModelTimeoutDuration())
	ollama.SetRetries(cfg.ModelRetries)

	router := llm.NewRouter(map[string]llm.CompletionProvider{
		"ollama": ollama,
	}, cfg.LLMProvider)

	provider, err := router.Route(context.Background())
	if err != nil {
		return nil, fmt.Errorf("select model provider: %w", err)
	}
	return provider, nil
}

// Router builds the HTTP handler for this app.
func (a *App) Router() *chi.Mux {
	return api.NewRouter(api.Deps{
		Registry:            a.Registry,
		Runner:              a.Orchestrator,
		Audit:               a.Audit,
		APIClientID:         a.Config.APIClientID,
		APIClientSecretHash: a.Config.APIClientSecretHash,
	})
}

// Close stops the audit recorder, drains it, and closes the database.
func (a *App) Close() error {
	a.cancelRec()
	a.recorder.Wait()
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("database close error: %w", err)
	}
	return nil
}
