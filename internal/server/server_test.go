package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/matiasleandrokruk/puente/internal/infra/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "server_test.db")
	app, err := NewApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("NewApp error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestDefaultHTTPConfig(t *testing.T) {
	cfg := DefaultHTTPConfig()

	if cfg.Host != "0.0.0.0" {
		t.Fatalf("Host = %q; want %q", cfg.Host, "0.0.0.0")
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port = %d; want %d", cfg.Port, 8080)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %v; want %v", cfg.ReadTimeout, 15*time.Second)
	}
	if cfg.WriteTimeout != 15*time.Minute {
		t.Fatalf("WriteTimeout = %v; want %v", cfg.WriteTimeout, 15*time.Minute)
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Fatalf("IdleTimeout = %v; want %v", cfg.IdleTimeout, 60*time.Second)
	}
}

func TestNewApp_WiresComponents(t *testing.T) {
	app := newTestApp(t)

	if app.Registry == nil || app.Orchestrator == nil || app.Audit == nil {
		t.Fatal("app components should be wired")
	}
	// Built-in catalog is fixed at startup.
	if got := len(app.Registry.List()); got != 3 {
		t.Fatalf("registry size = %d; want 3", got)
	}
	for _, name := range []string{"calculator", "search_docs", "web_fetch"} {
		if _, ok := app.Registry.Lookup(name); !ok {
			t.Errorf("tool %q should be registered", name)
		}
	}
}

func TestNewServer_ConfiguresAddressAndHandler(t *testing.T) {
	app := newTestApp(t)

	cfg := HTTPConfig{Host: "127.0.0.1", Port: 18080, ReadTimeout: time.Second, WriteTimeout: 2 * time.Second, IdleTimeout: 3 * time.Second}
	s := NewServer(app, cfg)

	if s == nil {
		t.Fatal("NewServer() returned nil")
	}
	if s.http == nil {
		t.Fatal("server.http should not be nil")
	}
	if s.http.Addr != "127.0.0.1:18080" {
		t.Fatalf("Addr = %q; want %q", s.http.Addr, "127.0.0.1:18080")
	}
	if s.http.Handler == nil {
		t.Fatal("Handler should not be nil")
	}
}

func TestServer_Start_StopsOnContextCancel(t *testing.T) {
	app := newTestApp(t)

	cfg := DefaultHTTPConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0 // let the OS pick a free port
	s := NewServer(app, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		result <- s.Start(ctx)
	}()

	// Give ListenAndServe a moment to bind before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Start after cancellation = %v; want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}

func TestAppRouter_ServesHealth(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d; want 200", rec.Code)
	}
}
