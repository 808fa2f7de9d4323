package texbuild

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []Invocation
	results map[string][]Result
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	if f.err != nil {
		return Result{}, f.err
	}
	queue := f.results[inv.Tool]
	if len(queue) == 0 {
		return Result{}, nil
	}
	res := queue[0]
	f.results[inv.Tool] = queue[1:]
	return res, nil
}

func (f *fakeRunner) tools() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Tool)
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDriver(r Runner, opts Options) *Driver {
	return NewDriver(opts).WithRunner(r).WithLogger(quietLogger())
}

func sampleDoc() Document {
	return Document{BaseName: "Report", TeX: `\documentclass{report}`, Bib: "@book{CLRS}"}
}

func TestBuildRunsFourInvocationsInOrder(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRunner{}
	d := newTestDriver(r, Options{BibTerse: true})

	pdf, err := d.Build(context.Background(), sampleDoc(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Report.pdf"), pdf)
	assert.Equal(t, []string{"pdflatex", "bibtex", "pdflatex", "pdflatex"}, r.tools())

	compile := r.calls[0]
	assert.Equal(t, dir, compile.Dir)
	assert.Equal(t, []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory=" + dir,
		"Report.tex",
	}, compile.Args)
	assert.Equal(t, []string{"-terse", "Report"}, r.calls[1].Args)
}

func TestBuildWritesSources(t *testing.T) {
	dir := t.TempDir()
	d := newTestDriver(&fakeRunner{}, Options{})

	_, err := d.Build(context.Background(), sampleDoc(), dir)
	require.NoError(t, err)

	tex, err := os.ReadFile(filepath.Join(dir, "Report.tex"))
	require.NoError(t, err)
	assert.Equal(t, `\documentclass{report}`, string(tex))
	bib, err := os.ReadFile(filepath.Join(dir, "Report.bib"))
	require.NoError(t, err)
	assert.Equal(t, "@book{CLRS}", string(bib))
}

func TestBuildHonorsPassCount(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDriver(r, Options{CompilerPasses: 3, Compiler: "xelatex", Bibliography: "biber"})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"xelatex", "biber", "xelatex", "xelatex", "xelatex"}, r.tools())
	assert.Equal(t, []string{"Report"}, r.calls[1].Args)
}

func TestPassCountHasFloorOfTwo(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDriver(r, Options{CompilerPasses: 1})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"pdflatex", "bibtex", "pdflatex", "pdflatex"}, r.tools())
}

func TestCompilerFailureStopsBuild(t *testing.T) {
	r := &fakeRunner{results: map[string][]Result{
		"pdflatex": {{ExitCode: 1, Stdout: "! Undefined control sequence.", Stderr: "boom"}},
	}}
	d := newTestDriver(r, Options{})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.Error(t, err)
	assert.Len(t, r.calls, 1)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	code, ok := ce.ExitCode()
	require.True(t, ok)
	assert.Equal(t, 1, code)
	pass, _ := ce.Context().GetInt("pass")
	assert.Equal(t, 1, pass)
	stdout, _ := ce.Context().GetString("stdout")
	assert.Contains(t, stdout, "Undefined control sequence")
}

func TestLaterPassFailureReportsPass(t *testing.T) {
	r := &fakeRunner{results: map[string][]Result{
		"pdflatex": {{}, {}, {ExitCode: 2}},
	}}
	d := newTestDriver(r, Options{})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	pass, _ := ce.Context().GetInt("pass")
	assert.Equal(t, 3, pass)
}

func TestBibliographyNonZeroTolerated(t *testing.T) {
	r := &fakeRunner{results: map[string][]Result{
		"bibtex": {{ExitCode: 2, Stdout: "Warning--I didn't find a database entry"}},
	}}
	d := newTestDriver(r, Options{})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, r.calls, 4)
}

func TestBibliographyFatalOutputFails(t *testing.T) {
	for _, out := range []string{"Fatal Error: cannot open file", "I couldn't open database file ERROR"} {
		r := &fakeRunner{results: map[string][]Result{
			"bibtex": {{ExitCode: 2, Stderr: out}},
		}}
		d := newTestDriver(r, Options{})

		_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
		require.Error(t, err, out)
		assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
		assert.Len(t, r.calls, 2)
	}
}

func TestToolNotFound(t *testing.T) {
	r := &fakeRunner{err: ErrToolNotFound}
	d := newTestDriver(r, Options{})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestCanceledContextStopsBeforeRunning(t *testing.T) {
	r := &fakeRunner{}
	d := newTestDriver(r, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Build(ctx, sampleDoc(), t.TempDir())
	require.Error(t, err)
	assert.Empty(t, r.calls)
	assert.ErrorIs(t, err, context.Canceled)
}

type slowRunner struct{}

func (slowRunner) Run(ctx context.Context, _ Invocation) (Result, error) {
	<-ctx.Done()
	return Result{}, ctx.Err()
}

func TestTimeoutBoundsInvocation(t *testing.T) {
	d := newTestDriver(slowRunner{}, Options{Timeout: 10 * time.Millisecond})

	_, err := d.Build(context.Background(), sampleDoc(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, errors.HasCategory(err, errors.CategoryBuild))
}

func TestMissingWorkDir(t *testing.T) {
	d := newTestDriver(&fakeRunner{}, Options{})
	_, err := d.Build(context.Background(), sampleDoc(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestResultOutput(t *testing.T) {
	assert.Equal(t, "a", Result{Stdout: "a"}.Output())
	assert.Equal(t, "b", Result{Stderr: "b"}.Output())
	assert.Equal(t, "a\nb", Result{Stdout: "a", Stderr: "b"}.Output())
}
