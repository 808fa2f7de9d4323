package commands

import (
	"context"

	"git.home.luguber.info/inful/clrsreport/internal/logfields"
	"git.home.luguber.info/inful/clrsreport/internal/watch"
)

// runWatch builds once, then rebuilds whenever the manifest, a chapter
// fragment or the listing sources change. It returns when ctx is canceled.
func runWatch(ctx context.Context, c *CLI) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if err := s.build(ctx, c); err != nil {
		c.logger.Warn("Initial build failed; waiting for changes", logfields.Error(err))
	}

	w := watch.New(func(ctx context.Context) error {
		return s.build(ctx, c)
	}, s.cfg.ManifestPath(), s.cfg.ChaptersDir(), s.cfg.SourceRoot()).
		WithIgnore(s.cfg.OutputDir(), s.cfg.WorkspaceBase()).
		WithLogger(c.logger)
	return w.Run(ctx)
}
