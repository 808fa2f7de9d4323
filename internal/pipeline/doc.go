// Package pipeline runs the report build end to end.
//
// Stages execute in a fixed order and the first failure aborts the run:
//
//	load_manifest → assemble_chapters → load_listing → render_document → build → finalize
//
// Every stage is timed into the Report and the metrics Recorder. The build
// workspace is released on every exit path.
package pipeline
