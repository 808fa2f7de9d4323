package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
)

// WriteTextfile writes every metric gathered from reg to path in the
// node_exporter textfile format.
func WriteTextfile(reg *prom.Registry, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return errors.IOError("failed to write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
