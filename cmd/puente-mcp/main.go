// Command puente-mcp serves the tool catalog over MCP on stdio, for use as a
// tool server inside MCP-capable clients.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/puente/internal/domain/tool"
	"github.com/matiasleandrokruk/puente/internal/infra/config"
	"github.com/matiasleandrokruk/puente/internal/infra/eventbus"
	"github.com/matiasleandrokruk/puente/internal/infra/sqlite"
	"github.com/matiasleandrokruk/puente/internal/mcpserver"
	"github.com/matiasleandrokruk/puente/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("puente-mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	configPath := fs.String("config", "", "Path to a YAML configuration file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "puente-mcp: %v\n", err) //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "puente-mcp: %v\n", err) //nolint:errcheck
		return 1
	}

	if err := serve(cfg); err != nil {
		fmt.Fprintf(errOut, "puente-mcp: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// serve runs the MCP server on stdio until the client disconnects or the
// process receives an interrupt. The model provider is not needed here:
// MCP clients bring their own model and only call tools.
func serve(cfg config.Config) error {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck
	if err := sqlite.MigrateUp(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	registry, err := tool.NewBuiltinRegistry(tool.BuiltinServices{DB: db})
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}
	executor := tool.NewExecutor(registry, cfg.ToolTimeoutDuration(), eventbus.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mcpserver.New(registry, executor)
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFile(path)
}
