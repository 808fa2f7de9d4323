package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/clrsreport/internal/config"
	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/pipeline"
	"git.home.luguber.info/inful/clrsreport/internal/texbuild"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

type stubBuilder struct{ err error }

func (s stubBuilder) Build(_ context.Context, doc texbuild.Document, workDir string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	for name, content := range map[string]string{
		doc.BaseName + ".tex": doc.TeX,
		doc.BaseName + ".pdf": "%PDF-1.4 stub",
		doc.BaseName + ".log": "log",
	} {
		if err := os.WriteFile(filepath.Join(workDir, name), []byte(content), 0o600); err != nil {
			return "", err
		}
	}
	return filepath.Join(workDir, doc.BaseName+".pdf"), nil
}

func useBuilder(t *testing.T, b pipeline.Builder) {
	t.Helper()
	prev := newBuilder
	newBuilder = func(*config.Config) pipeline.Builder { return b }
	t.Cleanup(func() { newBuilder = prev })
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"latex/config/report.yml":              "chapters:\n  - id: insertion_sort\n    title: Insertion Sort\n",
		"algorithms/src/insertion_sort.rs":     "/// docs\nfn insertion_sort() {}\n",
		"clrsreport.yaml": "paths:\n  root: " + root + "\n  workspace_base: " + filepath.Join(root, "tmp") +
			"\ndocument:\n  verify_pdf: false\n  stamp_revision: false\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestNoArgumentPrintsUsage(t *testing.T) {
	code, out, _ := run(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: clrsreport")
}

func TestUnknownCommandExitsZero(t *testing.T) {
	code, out, _ := run(t, "quick_sort")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Unknown command: quick_sort")
	assert.Contains(t, out, "Available commands: add_binary, doc, init, insertion_sort")
}

func TestBadFlagIsUsageError(t *testing.T) {
	code, _, errOut := run(t, "--no-such-flag", "doc")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Error:")
}

func TestVersionFlag(t *testing.T) {
	code, out, _ := run(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "clrsreport ")
}

func TestDemos(t *testing.T) {
	tests := []struct {
		command string
		want    []string
	}{
		{"insertion_sort", []string{"Input: [5 2 4 6 1 3]", "Output: [1 2 3 4 5 6]"}},
		{"insertion_sort_steps", []string{
			"After inserting element at index 1: [31 41 59 26 41 58]",
			"After inserting element at index 3: [26 31 41 59 41 58]",
			"Sorted array: [26 31 41 41 58 59]",
		}},
		{"insertion_sort_decreasing", []string{"Sorted array: [59 58 41 41 31 26]"}},
		{"sum_array", []string{"[1] Sum (CLRS indexing): 21", "[2] Sum (range loop): 21"}},
		{"add_binary", []string{"C=[1 1 0 0 0]", "C=[0 0 1 0 1]"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			code, out, _ := run(t, tt.command)
			assert.Equal(t, 0, code)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDocSuccess(t *testing.T) {
	root := project(t)
	useBuilder(t, stubBuilder{})
	metricsFile := filepath.Join(root, "report.prom")

	code, out, errOut := run(t, "--config", filepath.Join(root, "clrsreport.yaml"), "--metrics-file", metricsFile, "doc")
	require.Equal(t, 0, code, errOut)

	pdf := filepath.Join(root, "output", "CLRS_Analysis_Report.pdf")
	assert.Equal(t, "SUCCESS: PDF generated at "+pdf+"\n", out)
	assert.FileExists(t, pdf)
	assert.NoFileExists(t, filepath.Join(root, "output", "CLRS_Analysis_Report.log"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `clrsreport_build_outcomes_total{outcome="success"} 1`))
}

func TestDocBuildFailureExitCode(t *testing.T) {
	root := project(t)
	useBuilder(t, stubBuilder{err: errors.BuildError("LaTeX compilation failed").WithContext("exit_code", 1).Build()})

	code, out, errOut := run(t, "--config", filepath.Join(root, "clrsreport.yaml"), "doc")
	assert.Equal(t, 11, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Error: LaTeX compilation failed")
	assert.NoDirExists(t, filepath.Join(root, "output"))
}

func TestDocMissingManifestIsConfigError(t *testing.T) {
	root := project(t)
	require.NoError(t, os.Remove(filepath.Join(root, "latex", "config", "report.yml")))
	useBuilder(t, stubBuilder{})

	code, _, _ := run(t, "--config", filepath.Join(root, "clrsreport.yaml"), "doc")
	assert.Equal(t, 7, code)
}

func TestDocMissingListingIsNotFound(t *testing.T) {
	root := project(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "algorithms")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "algorithms"), 0o750))
	useBuilder(t, stubBuilder{})

	code, _, _ := run(t, "--config", filepath.Join(root, "clrsreport.yaml"), "doc")
	assert.Equal(t, 4, code)
}

func TestInit(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "clrsreport.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("paths:\n  root: "+root+"\n"), 0o600))

	code, out, _ := run(t, "--config", cfgPath, "init")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, filepath.Join(root, "latex", "config", "report.yml"))

	code, _, _ = run(t, "--config", cfgPath, "init")
	assert.Equal(t, 2, code)

	code, _, _ = run(t, "--config", cfgPath, "--force", "init")
	assert.Equal(t, 0, code)
}
