package config

// Default values mirror the repository layout the report was first built from.
const (
	DefaultManifest       = "latex/config/report.yml"
	DefaultSourceRoot     = "algorithms"
	DefaultChaptersDir    = "latex/chapters"
	DefaultOutputDir      = "output"
	DefaultCompiler       = "pdflatex"
	DefaultBibliography   = "bibtex"
	DefaultCompilerPasses = 2
	MinCompilerPasses     = 2
	DefaultBaseName       = "CLRS_Analysis_Report"
	DefaultTitle          = "Comprehensive Analysis of Fundamental Algorithms in Rust"
	DefaultAuthor         = "Thor"
	DefaultListingID      = "insertion_sort"
	DefaultListingSuffix  = ".rs"
	DefaultListingCaption = "Insertion Sort in Rust (algorithms crate)"
)

func applyDefaults(cfg *Config) {
	p := &cfg.Paths
	if p.Root == "" {
		p.Root = "."
	}
	if p.Manifest == "" {
		p.Manifest = DefaultManifest
	}
	if p.SourceRoot == "" {
		p.SourceRoot = DefaultSourceRoot
	}
	if p.ChaptersDir == "" {
		p.ChaptersDir = DefaultChaptersDir
	}
	if p.OutputDir == "" {
		p.OutputDir = DefaultOutputDir
	}
	if p.InvocationRoot == "" {
		p.InvocationRoot = "."
	}

	t := &cfg.Toolchain
	if t.Compiler == "" {
		t.Compiler = DefaultCompiler
	}
	if t.Bibliography == "" {
		t.Bibliography = DefaultBibliography
	}
	if t.CompilerPasses == 0 {
		t.CompilerPasses = DefaultCompilerPasses
	}

	d := &cfg.Document
	if d.BaseName == "" {
		d.BaseName = DefaultBaseName
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Author == "" {
		d.Author = DefaultAuthor
	}
	if d.ListingID == "" {
		d.ListingID = DefaultListingID
	}
	if d.ListingSuffix == "" {
		d.ListingSuffix = DefaultListingSuffix
	}
	if d.ListingCaption == "" {
		d.ListingCaption = DefaultListingCaption
	}
}
