// Package finalize moves build artifacts out of the workspace and removes
// everything the toolchain left behind.
package finalize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	pdflib "github.com/ledongthuc/pdf"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
)

// TransientExtensions are toolchain by-products swept from the output
// directory after a successful build.
var TransientExtensions = []string{
	"aux", "bib", "log", "toc", "out", "bbl", "blg", "bcf", "run.xml", "fdb_latexmk", "fls",
}

// Releaser owns the build workspace.
type Releaser interface {
	Cleanup() error
}

// Result describes the published artifacts.
type Result struct {
	PDFPath string
	TeXPath string
	Pages   int
	// Warnings holds non-fatal problems such as a workspace that could not
	// be removed.
	Warnings []error
}

// Finalizer publishes <BaseName>.pdf and <BaseName>.tex.
type Finalizer struct {
	BaseName       string
	InvocationRoot string
	VerifyPDF      bool

	releaser Releaser
	logger   *slog.Logger
}

// New returns a Finalizer with PDF verification enabled.
func New(baseName, invocationRoot string) *Finalizer {
	return &Finalizer{
		BaseName:       baseName,
		InvocationRoot: invocationRoot,
		VerifyPDF:      true,
		logger:         slog.Default(),
	}
}

// WithReleaser sets the workspace owner released after artifacts are copied.
func (f *Finalizer) WithReleaser(r Releaser) *Finalizer {
	f.releaser = r
	return f
}

// WithLogger replaces the logger.
func (f *Finalizer) WithLogger(l *slog.Logger) *Finalizer {
	if l != nil {
		f.logger = l
	}
	return f
}

// Finalize checks that the build produced a PDF, copies the PDF and its
// source into outputDir, releases the workspace and sweeps transient files.
func (f *Finalizer) Finalize(workDir, outputDir string) (Result, error) {
	var res Result
	pdfSrc := filepath.Join(workDir, f.BaseName+".pdf")
	texSrc := filepath.Join(workDir, f.BaseName+".tex")

	info, err := os.Stat(pdfSrc)
	if err != nil || info.IsDir() {
		return res, errors.ArtifactMissingError("PDF not generated").
			WithContext("path", pdfSrc).
			Build()
	}
	if f.VerifyPDF {
		pages, err := CountPages(pdfSrc)
		if err != nil {
			return res, errors.ArtifactMissingError("generated PDF is unreadable").
				WithCause(err).
				WithContext("path", pdfSrc).
				Build()
		}
		res.Pages = pages
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return res, errors.IOError("failed to create output directory").
			WithCause(err).
			WithContext("path", outputDir).
			Build()
	}
	res.PDFPath = filepath.Join(outputDir, f.BaseName+".pdf")
	res.TeXPath = filepath.Join(outputDir, f.BaseName+".tex")
	if err := copyFile(pdfSrc, res.PDFPath); err != nil {
		return Result{}, err
	}
	if err := copyFile(texSrc, res.TeXPath); err != nil {
		return Result{}, err
	}

	if err := f.removeStraySource(res.TeXPath); err != nil {
		return res, err
	}

	if f.releaser != nil {
		if err := f.releaser.Cleanup(); err != nil {
			f.logger.Warn("Workspace cleanup failed", logfields.Error(err))
			res.Warnings = append(res.Warnings, err)
		}
	}

	removed, err := Sweep(outputDir, f.BaseName)
	if err != nil {
		return res, err
	}
	if removed > 0 {
		f.logger.Debug("Removed transient files", logfields.Path(outputDir), logfields.Count(removed))
	}
	return res, nil
}

// removeStraySource deletes <BaseName>.tex from the invocation root unless it
// is the published copy.
func (f *Finalizer) removeStraySource(published string) error {
	if f.InvocationRoot == "" {
		return nil
	}
	stray := filepath.Join(f.InvocationRoot, f.BaseName+".tex")
	if samePath(stray, published) {
		return nil
	}
	err := os.Remove(stray)
	if err == nil {
		f.logger.Debug("Removed stray source", logfields.Path(stray))
		return nil
	}
	if os.IsNotExist(err) {
		return nil
	}
	return errors.IOError("failed to remove stray source").
		WithCause(err).
		WithContext("path", stray).
		Build()
}

// Sweep deletes <baseName>*.<ext> in dir for every transient extension and
// reports how many files were removed.
func Sweep(dir, baseName string) (int, error) {
	removed := 0
	for _, ext := range TransientExtensions {
		matches, err := filepath.Glob(filepath.Join(dir, baseName+"*."+ext))
		if err != nil {
			return removed, errors.IOError("invalid cleanup pattern").
				WithCause(err).
				WithContext("path", dir).
				Build()
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
				return removed, errors.IOError("failed to remove transient file").
					WithCause(err).
					WithContext("path", m).
					Build()
			}
			removed++
		}
	}
	return removed, nil
}

// CountPages opens a PDF and returns its page count. A document with no
// pages is reported as an error.
func CountPages(path string) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("parse %s: %v", path, r)
		}
	}()
	file, reader, err := pdflib.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	pages = reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("%s has no pages", path)
	}
	return pages, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.IOError("failed to open artifact").
			WithCause(err).
			WithContext("path", src).
			Build()
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return errors.IOError("failed to create artifact").
			WithCause(err).
			WithContext("path", dst).
			Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.IOError("failed to copy artifact").
			WithCause(err).
			WithContext("path", dst).
			Build()
	}
	if err := out.Close(); err != nil {
		return errors.IOError("failed to close artifact").
			WithCause(err).
			WithContext("path", dst).
			Build()
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
