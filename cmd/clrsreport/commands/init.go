package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/clrsreport/internal/config"
	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/manifest"
)

// runInit writes the example manifest where the configuration expects it.
func runInit(_ context.Context, c *CLI) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	path := cfg.ManifestPath()
	_, _ = fmt.Fprintf(c.stdout, "Writing manifest to %s\n", path)
	if err := manifest.Init(path, c.Force); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "init failed").
			UserAction().
			WithContext("path", path).
			Build()
	}
	_, _ = fmt.Fprintln(c.stdout, "initialized successfully")
	return nil
}
