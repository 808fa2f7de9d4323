// Package texbuild drives the external LaTeX toolchain.
//
// A build is a fixed sequence: one compiler pass, one bibliography pass, then
// a configurable number of further compiler passes so cross references and
// citations settle. Process execution sits behind the Runner interface;
// ExecRunner is the production implementation.
package texbuild
