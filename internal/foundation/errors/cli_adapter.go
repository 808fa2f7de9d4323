package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing user-facing messages to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithOutput redirects user-facing messages.
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return a.exitCodeFromClassified(classified)
	}
	return 1
}

func (a *CLIErrorAdapter) exitCodeFromClassified(err *ClassifiedError) int {
	switch err.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryNotFound:
		return 4 // Missing input
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryBuild, CategoryArtifactMissing, CategoryFileSystem:
		return 11 // Build error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return fmt.Sprintf("Error: %v", err)
	}
	if classified.Cause() != nil {
		return fmt.Sprintf("Error: %s: %v", classified.Message(), classified.Cause())
	}
	return fmt.Sprintf("Error: %s", classified.Message())
}

// Report logs and prints an error and returns the exit code without exiting.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	a.logError(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{
		slog.String("category", string(classified.Category())),
	}
	if classified.RequiresUserAction() {
		attrs = append(attrs, slog.Bool("user_action", true))
	}
	for _, key := range []string{"tool", "pass", "exit_code", "path", "id"} {
		if v, ok := classified.Context().Get(key); ok {
			attrs = append(attrs, slog.Any(key, v))
		}
	}
	if a.verbose {
		if stderr, ok := classified.Context().GetString("stderr"); ok && stderr != "" {
			attrs = append(attrs, slog.String("stderr", stderr))
		}
	}
	a.logger.LogAttrs(context.Background(), a.slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityError, SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
