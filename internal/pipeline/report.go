package pipeline

import (
	"time"

	"git.home.luguber.info/inful/clrsreport/internal/chapters"
	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/metrics"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageLoadManifest     StageName = "load_manifest"
	StageAssembleChapters StageName = "assemble_chapters"
	StageLoadListing      StageName = "load_listing"
	StageRenderDocument   StageName = "render_document"
	StageBuild            StageName = "build"
	StageFinalize         StageName = "finalize"
)

// ChapterSummary records how one chapter was assembled.
type ChapterSummary struct {
	ID       string
	Strategy chapters.Strategy
}

// Report summarizes a single run.
type Report struct {
	RunID          string
	Start          time.Time
	End            time.Time
	StageOrder     []StageName
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	Chapters       []ChapterSummary
	ListingPath    string
	Revision       string
	PDFPath        string
	TeXPath        string
	Pages          int
	Outcome        metrics.BuildOutcomeLabel
	Warnings       []error
}

func newReport(runID string, start time.Time) *Report {
	return &Report{
		RunID:          runID,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

func (r *Report) recordStage(name StageName, d time.Duration, result metrics.ResultLabel, rec metrics.Recorder) {
	r.StageOrder = append(r.StageOrder, name)
	r.StageDurations[name] = d
	r.StageResults[name] = result
	rec.ObserveStageDuration(string(name), d)
	rec.IncStageResult(string(name), result)
}

func (r *Report) addWarning(err error) {
	if err != nil {
		r.Warnings = append(r.Warnings, err)
	}
}

// stageResult classifies a stage error for counters.
func stageResult(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.HasCategory(err, errors.CategoryRuntime):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFatal
	}
}

func outcome(err error) metrics.BuildOutcomeLabel {
	switch stageResult(err) {
	case metrics.ResultSuccess:
		return metrics.BuildOutcomeSuccess
	case metrics.ResultCanceled:
		return metrics.BuildOutcomeCanceled
	default:
		return metrics.BuildOutcomeFailed
	}
}
