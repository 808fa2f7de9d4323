package texbuild

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrToolNotFound is returned when a toolchain binary is not on PATH.
var ErrToolNotFound = stderrors.New("tool not found")

// Invocation describes a single toolchain process.
type Invocation struct {
	Tool string
	Args []string
	Dir  string
}

// Result captures a finished process. A non-zero ExitCode is not an error at
// this level; callers decide how strict each tool is.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Output returns stdout and stderr joined, skipping empty streams.
func (r Result) Output() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Runner abstracts process execution so the driver can be exercised without
// a TeX installation.
type Runner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner runs tools found on PATH with os/exec.
type ExecRunner struct{}

// Run executes inv with stdin closed and both output streams captured.
func (ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	path, err := exec.LookPath(inv.Tool)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrToolNotFound, inv.Tool, err)
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("run %s: %w", inv.Tool, err)
	}
	return res, nil
}
