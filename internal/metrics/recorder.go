package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a pipeline run.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for pipeline and toolchain metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObserveToolInvocation(tool string, d time.Duration, success bool)
	IncChapterStrategy(strategy string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)       {}
func (NoopRecorder) IncStageResult(string, ResultLabel)               {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)               {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)                {}
func (NoopRecorder) ObserveToolInvocation(string, time.Duration, bool) {}
func (NoopRecorder) IncChapterStrategy(string)                        {}

var _ Recorder = NoopRecorder{}
