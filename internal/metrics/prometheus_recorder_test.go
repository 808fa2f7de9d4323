package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_document", 150*time.Millisecond)
	pr.IncStageResult("render_document", ResultSuccess)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.ObserveToolInvocation("pdflatex", time.Second, true)
	pr.ObserveToolInvocation("bibtex", time.Second, false)
	pr.IncChapterStrategy("placeholder")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"clrsreport_stage_duration_seconds",
		"clrsreport_stage_results_total",
		"clrsreport_build_duration_seconds",
		"clrsreport_build_outcomes_total",
		"clrsreport_tool_duration_seconds",
		"clrsreport_tool_invocations_total",
		"clrsreport_chapters_total",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("x", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.ObserveToolInvocation("bibtex", time.Second, true)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncChapterStrategy("fragment")

	path := filepath.Join(t.TempDir(), "report.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `clrsreport_chapters_total{strategy="fragment"} 1`))
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg)
	err := WriteTextfile(reg, filepath.Join(t.TempDir(), "missing", "report.prom"))
	require.Error(t, err)
}
