// Command puented runs the HTTP daemon: the JWT-protected REST API plus an
// MCP endpoint under /mcp.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matiasleandrokruk/puente/internal/infra/config"
	"github.com/matiasleandrokruk/puente/internal/mcpserver"
	"github.com/matiasleandrokruk/puente/internal/server"
	"github.com/matiasleandrokruk/puente/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("puented", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	configPath := fs.String("config", "", "Path to a YAML configuration file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "puented: %v\n", err) //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "puented: %v\n", err) //nolint:errcheck
		return 1
	}

	app, err := server.NewApp(cfg, out)
	if err != nil {
		fmt.Fprintf(errOut, "puented: %v\n", err) //nolint:errcheck
		return 1
	}

	httpCfg := server.DefaultHTTPConfig()
	httpCfg.Host = cfg.HTTPHost
	httpCfg.Port = cfg.HTTPPort

	router := app.Router()
	router.Mount("/mcp", mcpserver.New(app.Registry, app.Executor).HTTPHandler())

	srv := server.NewServerWithHandler(app, router, httpCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "puented: %v\n", err) //nolint:errcheck
			return 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(errOut, "puented: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFile(path)
}
