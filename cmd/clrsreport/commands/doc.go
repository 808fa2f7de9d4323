package commands

import (
	"context"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/clrsreport/internal/config"
	"git.home.luguber.info/inful/clrsreport/internal/metrics"
	"git.home.luguber.info/inful/clrsreport/internal/pipeline"
	"git.home.luguber.info/inful/clrsreport/internal/texbuild"
)

// newBuilder is replaced in tests to avoid invoking the real toolchain.
var newBuilder = func(cfg *config.Config) pipeline.Builder {
	return texbuild.NewDriver(texbuild.OptionsFromConfig(cfg))
}

// session bundles what a build run needs.
type session struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	registry *prom.Registry
}

func newSession(c *CLI) (*session, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}
	p := pipeline.New(cfg).WithBuilder(newBuilder(cfg)).WithLogger(c.logger)
	if c.MetricsFile != "" {
		s.registry = prom.NewRegistry()
		p.WithRecorder(metrics.NewPrometheusRecorder(s.registry))
	}
	s.pipeline = p
	return s, nil
}

// build runs the pipeline once and prints the published PDF path.
func (s *session) build(ctx context.Context, c *CLI) error {
	rep, err := s.pipeline.Run(ctx)
	if s.registry != nil {
		if werr := metrics.WriteTextfile(s.registry, c.MetricsFile); werr != nil {
			c.logger.Warn("Failed to write metrics", "error", werr)
		}
	}
	if err != nil {
		return err
	}
	for _, w := range rep.Warnings {
		c.logger.Warn("Build completed with warning", "error", w)
	}
	_, _ = fmt.Fprintf(c.stdout, "SUCCESS: PDF generated at %s\n", rep.PDFPath)
	return nil
}

func runDoc(ctx context.Context, c *CLI) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	return s.build(ctx, c)
}
