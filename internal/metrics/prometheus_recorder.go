package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "clrsreport"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	toolDuration  *prom.HistogramVec
	toolResults   *prom.CounterVec
	chapters      *prom.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total pipeline duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Pipeline outcomes by final status",
		}, []string{"outcome"}),
		toolDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_duration_seconds",
			Help:      "Duration of toolchain invocations",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"tool"}),
		toolResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Toolchain invocations by tool and result",
		}, []string{"tool", "result"}),
		chapters: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "chapters_total",
			Help:      "Assembled chapters by content strategy",
		}, []string{"strategy"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome,
		pr.toolDuration, pr.toolResults, pr.chapters)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveToolInvocation(tool string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
	p.toolResults.WithLabelValues(tool, res).Inc()
}

func (p *PrometheusRecorder) IncChapterStrategy(strategy string) {
	if p == nil {
		return
	}
	p.chapters.WithLabelValues(strategy).Inc()
}
