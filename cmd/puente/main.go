// Command puente answers a question from the command line by running the
// tool-calling conversation loop against a local model.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matiasleandrokruk/puente/internal/domain/agent"
	"github.com/matiasleandrokruk/puente/internal/infra/config"
	"github.com/matiasleandrokruk/puente/internal/server"
	"github.com/matiasleandrokruk/puente/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("puente", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")
	maxIterations := fs.Int("max-iterations", 0, "Override the configured iteration bound")
	quiet := fs.Bool("quiet", false, "Suppress conversation progress output")
	configPath := fs.String("config", "", "Path to a YAML configuration file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "puente: %v\n", err) //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		printHelp(errOut)
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "puente: %v\n", err) //nolint:errcheck
		return 1
	}

	trace := io.Writer(errOut)
	if *quiet {
		trace = io.Discard
	}

	app, err := server.NewApp(cfg, trace)
	if err != nil {
		fmt.Fprintf(errOut, "puente: %v\n", err) //nolint:errcheck
		return 1
	}
	defer app.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcome := app.Orchestrator.Run(ctx, question, *maxIterations)
	return reportOutcome(outcome, out, errOut, *quiet)
}

// reportOutcome renders the terminal outcome. Answers, refusals and the
// iteration-limit message go to stdout; a fatal error is labeled and routed
// to stderr so it can never be mistaken for an answer.
//
// A run that ended inside the loop contract is a successful program run,
// even when the outcome is a refusal or the iteration bound. Only a fatal
// error (model service down, cancellation) is a process failure.
func reportOutcome(outcome *agent.Outcome, out, errOut io.Writer, quiet bool) int {
	if !quiet {
		fmt.Fprintf(errOut, "status: %s (iterations: %d, tool calls: %d)\n", //nolint:errcheck
			outcome.Status, outcome.Iterations, outcome.ToolCalls)
	}

	if outcome.Status == agent.StatusFatalError {
		fmt.Fprintf(errOut, "error: %s\n", outcome.Answer) //nolint:errcheck
		return 1
	}

	fmt.Fprintln(out, outcome.Answer) //nolint:errcheck
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFile(path)
}

func printHelp(out io.Writer) {
	helpText := `puente - tool-calling conversation loop

Usage:
  puente [options] <question>

Options:
  --config <path>        Path to a YAML configuration file
  --max-iterations <n>   Override the configured iteration bound
  --quiet                Suppress conversation progress output
  --version              Show version information
  --help                 Show this help message

Examples:
  puente "What is 234 + 567?"
  puente --max-iterations 3 "Search the docs for Flask"
  puente --quiet "Fetch the title of example.com"`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
