// Package metrics records pipeline observations for report builds.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; PrometheusRecorder registers collectors on a
// caller-supplied registry, which the CLI can dump to a textfile after a run
// with WriteTextfile.
package metrics
