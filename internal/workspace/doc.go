// Package workspace manages the exclusively-owned directory a report build
// compiles in.
//
// Ephemeral mode creates a fresh directory per run (clrsreport-<timestamp>-<id>)
// and removes it on Cleanup. Persistent mode uses a fixed directory that
// survives Cleanup, which is useful when inspecting compiler logs.
package workspace
