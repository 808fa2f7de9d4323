// Package commands implements the clrsreport command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/version"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "CLRSREPORT_LOG_LEVEL"

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"clrsreport.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics in textfile format after a build"`
	Force       bool             `help:"Overwrite an existing manifest (init)"`

	Command string `arg:"" optional:"" help:"Command to run: ${commands}"`

	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if env := os.Getenv(LogLevelEnv); env != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(env)); err == nil {
			level = parsed
		}
	}
	w := c.stderr
	if w == nil {
		w = os.Stderr
	}
	c.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(c.logger)
	return nil
}

// runFunc executes one named command.
type runFunc func(ctx context.Context, c *CLI) error

var registry = map[string]runFunc{
	"doc":                       runDoc,
	"init":                      runInit,
	"watch":                     runWatch,
	"insertion_sort":            demoInsertionSort,
	"insertion_sort_steps":      demoInsertionSortSteps,
	"insertion_sort_decreasing": demoInsertionSortDecreasing,
	"sum_array":                 demoSumArray,
	"add_binary":                demoAddBinary,
}

// Commands lists every command name in sorted order.
func Commands() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// exitSignal carries kong's requested exit code out of Parse.
type exitSignal int

// Execute parses args, runs the selected command and returns the process
// exit code.
func Execute(args []string, stdout, stderr io.Writer) (code int) {
	cli := &CLI{stdout: stdout, stderr: stderr}

	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(exitSignal)
			if !ok {
				panic(r)
			}
			code = int(sig)
		}
	}()

	parser, err := kong.New(cli,
		kong.Name("clrsreport"),
		kong.Description("Build the CLRS analysis report and run the algorithm demos."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitSignal(c)) }),
		kong.Vars{
			"version":  version.String(),
			"commands": strings.Join(Commands(), ", "),
		},
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 10
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if cli.Command == "" {
		_ = kctx.PrintUsage(false)
		return 0
	}

	run, ok := registry[cli.Command]
	if !ok {
		_, _ = fmt.Fprintf(stdout, "Unknown command: %s\n", cli.Command)
		_, _ = fmt.Fprintf(stdout, "Available commands: %s\n", strings.Join(Commands(), ", "))
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, cli.logger).WithOutput(stderr)
		return adapter.Report(err)
	}
	return 0
}
