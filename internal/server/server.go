package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// stopGrace bounds the graceful stop triggered by Start's context.
const stopGrace = 10 * time.Second

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultHTTPConfig returns default HTTP server configuration.
// Read/write timeouts are generous: an /ask request blocks for the full
// conversation loop, which may span several model calls.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
}

// Server wraps the HTTP server around an assembled App.
type Server struct {
	app  *App
	http *http.Server
}

// NewServer creates an HTTP server serving the app's router.
func NewServer(app *App, cfg HTTPConfig) *Server {
	return NewServerWithHandler(app, app.Router(), cfg)
}

// NewServerWithHandler creates an HTTP server serving a custom handler,
// typically the app router with extra routes mounted on it.
func NewServerWithHandler(app *App, handler http.Handler, cfg HTTPConfig) *Server {
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		app:  app,
		http: httpServer,
	}
}

// Start starts the HTTP server and blocks until the server fails or ctx is
// cancelled. Cancellation triggers a graceful stop; the app itself stays open
// so the caller can still run Shutdown for the full teardown.
func (s *Server) Start(ctx context.Context) error {
	fmt.Printf("Starting HTTP server on %s\n", s.http.Addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), stopGrace)
		defer cancel()
		if err := s.http.Shutdown(stopCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Shutdown gracefully shuts down the server and closes the app.
func (s *Server) Shutdown(ctx context.Context) error {
	fmt.Println("Shutting down server...")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := s.app.Close(); err != nil {
		return err
	}

	fmt.Println("Server shutdown complete")
	return nil
}
