// Package listing finds source listings by chapter id and prepares them for typesetting.
//
// Locate walks a source tree in lexical order, so when an id matches more than
// one file the lexically first path wins and the rest are reported in the log.
// Sanitize strips documentation comment lines and repairs a fixed set of
// mis-decoded UTF-8 sequences.
package listing
