package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xzdarcy/rete/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects every occurrence of a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("rete", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
Rete - runs node-based dataflow graphs.

Usage:
  rete [options] [GRAPH_PATH...]

Arguments:
  GRAPH_PATH
    Path to a .hcl file, a directory of .hcl files, a glob pattern such as
    'graphs/**/*.hcl', or a single .json node-editor export.

Options:
`)
		flagSet.PrintDefaults()
	}

	var extraArgs stringList
	graphFlag := flagSet.String("graph", "", "Path to the graph file or directory.")
	gFlag := flagSet.String("g", "", "Path to the graph file or directory (shorthand).")
	startFlag := flagSet.String("start", "", "Id of the node to start from. Empty runs every node in id order.")
	scopeFlag := flagSet.String("scope", "", "Scope id (name@major.minor.patch) the engine accepts. Defaults to the graph's id.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	eventsURLFlag := flagSet.String("events-url", "", "socket.io server URL engine events are forwarded to.")
	policyFlag := flagSet.String("input-policy", "best-effort", "What to do with nodes whose inputs could not be resolved. Options: 'best-effort' or 'strict'.")
	flagSet.Var(&extraArgs, "arg", "Extra argument passed to every component. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	switch {
	case *graphFlag != "":
		paths = append(paths, *graphFlag)
	case *gFlag != "":
		paths = append(paths, *gFlag)
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Graph paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		GraphPaths:      paths,
		StartNode:       *startFlag,
		ScopeID:         *scopeFlag,
		Args:            extraArgs,
		InputPolicy:     *policyFlag,
		LogFormat:       *logFormatFlag,
		LogLevel:        *logLevelFlag,
		HealthcheckPort: *healthPortFlag,
		EventsURL:       *eventsURLFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
