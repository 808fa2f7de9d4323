package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyChapter    = "chapter"
	KeyStrategy   = "strategy"
	KeyPath       = "path"
	KeyTool       = "tool"
	KeyPass       = "pass"
	KeyExitCode   = "exit_code"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Chapter(id string) slog.Attr     { return slog.String(KeyChapter, id) }
func Strategy(s string) slog.Attr     { return slog.String(KeyStrategy, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func Pass(n int) slog.Attr            { return slog.Int(KeyPass, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
