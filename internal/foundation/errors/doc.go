// Package errors provides the classified error primitives used across clrsreport.
//
// Every pipeline stage reports failures as a ClassifiedError so the CLI can pick
// an exit code and a log level without string matching.
//
// Key features:
//   - ErrorCategory: what failed (config, not_found, build, artifact_missing, filesystem)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - UserAction: marks errors only a change to the inputs can fix
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: error presentation and exit codes for the command line
//
// Example usage:
//
//	err := errors.BuildError("pdflatex exited with a non-zero status").
//		WithContext("tool", "pdflatex").
//		WithContext("exit_code", 1).
//		WithCause(runErr).
//		Build()
package errors
