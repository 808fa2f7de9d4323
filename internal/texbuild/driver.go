package texbuild

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/clrsreport/internal/config"
	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
	"git.home.luguber.info/inful/clrsreport/internal/metrics"
)

// bibFatalMarkers mark bibliography output that must fail the build even
// though a non-zero exit is otherwise tolerated.
var bibFatalMarkers = []string{"Fatal Error", "ERROR"}

// Document is the rendered input of a build.
type Document struct {
	BaseName string
	TeX      string
	Bib      string
}

// Options selects the toolchain and pass count.
type Options struct {
	Compiler       string
	Bibliography   string
	CompilerPasses int
	BibTerse       bool
	Timeout        time.Duration
}

// OptionsFromConfig maps the toolchain section of cfg onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Compiler:       cfg.Toolchain.Compiler,
		Bibliography:   cfg.Toolchain.Bibliography,
		CompilerPasses: cfg.Toolchain.CompilerPasses,
		BibTerse:       cfg.BibTerse(),
		Timeout:        cfg.Toolchain.Timeout,
	}
}

// Driver runs the compile, bibliography, compile sequence.
type Driver struct {
	opts     Options
	runner   Runner
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewDriver returns a Driver using ExecRunner and no metrics.
func NewDriver(opts Options) *Driver {
	if opts.Compiler == "" {
		opts.Compiler = config.DefaultCompiler
	}
	if opts.Bibliography == "" {
		opts.Bibliography = config.DefaultBibliography
	}
	if opts.CompilerPasses < config.MinCompilerPasses {
		opts.CompilerPasses = config.MinCompilerPasses
	}
	return &Driver{
		opts:     opts,
		runner:   ExecRunner{},
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRunner replaces the process runner.
func (d *Driver) WithRunner(r Runner) *Driver {
	if r != nil {
		d.runner = r
	}
	return d
}

// WithRecorder attaches a metrics recorder.
func (d *Driver) WithRecorder(r metrics.Recorder) *Driver {
	if r != nil {
		d.recorder = r
	}
	return d
}

// WithLogger replaces the logger.
func (d *Driver) WithLogger(l *slog.Logger) *Driver {
	if l != nil {
		d.logger = l
	}
	return d
}

// Build writes doc into workDir and runs the toolchain there. It returns the
// path of the PDF the compiler is expected to have produced; finalization
// checks that it actually exists.
func (d *Driver) Build(ctx context.Context, doc Document, workDir string) (string, error) {
	if err := d.writeSources(doc, workDir); err != nil {
		return "", err
	}

	pass := 1
	if err := d.compile(ctx, doc.BaseName, workDir, pass); err != nil {
		return "", err
	}
	if err := d.bibliography(ctx, doc.BaseName, workDir); err != nil {
		return "", err
	}
	for i := 0; i < d.opts.CompilerPasses; i++ {
		pass++
		if err := d.compile(ctx, doc.BaseName, workDir, pass); err != nil {
			return "", err
		}
	}
	return filepath.Join(workDir, doc.BaseName+".pdf"), nil
}

func (d *Driver) writeSources(doc Document, workDir string) error {
	files := map[string]string{
		doc.BaseName + ".tex": doc.TeX,
		doc.BaseName + ".bib": doc.Bib,
	}
	for name, content := range files {
		path := filepath.Join(workDir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return errors.IOError("failed to write build input").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}
	return nil
}

func (d *Driver) compile(ctx context.Context, base, workDir string, pass int) error {
	inv := Invocation{
		Tool: d.opts.Compiler,
		Args: []string{
			"-interaction=nonstopmode",
			"-halt-on-error",
			"-output-directory=" + workDir,
			base + ".tex",
		},
		Dir: workDir,
	}
	res, err := d.run(ctx, inv, pass)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errors.BuildError("LaTeX compilation failed").
			WithContext("tool", inv.Tool).
			WithContext("pass", pass).
			WithContext("exit_code", res.ExitCode).
			WithContext("stdout", res.Stdout).
			WithContext("stderr", res.Stderr).
			Build()
	}
	return nil
}

func (d *Driver) bibliography(ctx context.Context, base, workDir string) error {
	args := []string{}
	if d.opts.BibTerse {
		args = append(args, "-terse")
	}
	inv := Invocation{Tool: d.opts.Bibliography, Args: append(args, base), Dir: workDir}
	res, err := d.run(ctx, inv, 0)
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		return nil
	}
	out := res.Output()
	for _, marker := range bibFatalMarkers {
		if strings.Contains(out, marker) {
			return errors.BuildError("bibliography processing failed").
				WithContext("tool", inv.Tool).
				WithContext("exit_code", res.ExitCode).
				WithContext("stdout", res.Stdout).
				WithContext("stderr", res.Stderr).
				Build()
		}
	}
	d.logger.Warn("Bibliography tool reported problems; continuing",
		logfields.Tool(inv.Tool), logfields.ExitCode(res.ExitCode))
	return nil
}

// run executes one invocation, applying the per-invocation timeout and
// recording metrics. Only failures to run the process are returned here.
func (d *Driver) run(ctx context.Context, inv Invocation, pass int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, canceled(inv.Tool, err)
	}
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	tool := filepath.Base(inv.Tool)
	d.logger.Info("Running toolchain", logfields.Tool(tool), logfields.Pass(pass))
	start := time.Now()
	res, err := d.runner.Run(ctx, inv)
	elapsed := time.Since(start)
	d.recorder.ObserveToolInvocation(tool, elapsed, err == nil && res.ExitCode == 0)

	if res.Stdout != "" {
		d.logger.Debug("toolchain stdout", logfields.Tool(tool), slog.String("output", res.Stdout))
	}
	if res.Stderr != "" {
		d.logger.Debug("toolchain stderr", logfields.Tool(tool), slog.String("output", res.Stderr))
	}

	if err != nil {
		switch {
		case stderrors.Is(err, ErrToolNotFound):
			return res, errors.BuildError("tool not found").
				WithCause(err).
				WithContext("tool", inv.Tool).
				UserAction().
				Build()
		case stderrors.Is(err, context.DeadlineExceeded):
			return res, errors.BuildError("toolchain invocation timed out").
				WithCause(err).
				WithContext("tool", inv.Tool).
				WithContext("pass", pass).
				Build()
		case stderrors.Is(err, context.Canceled):
			return res, canceled(inv.Tool, err)
		}
		return res, errors.BuildError("failed to run toolchain").
			WithCause(err).
			WithContext("tool", inv.Tool).
			Build()
	}
	return res, nil
}

func canceled(tool string, err error) error {
	return errors.NewError(errors.CategoryRuntime, "build canceled").
		WithCause(err).
		WithContext("tool", tool).
		Build()
}
