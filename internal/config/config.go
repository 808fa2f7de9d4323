package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when no --config flag is given.
const DefaultPath = "clrsreport.yaml"

// Config represents the report build configuration.
type Config struct {
	Paths     PathsConfig     `yaml:"paths"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Document  DocumentConfig  `yaml:"document"`
}

// PathsConfig holds every filesystem location the pipeline touches. Relative
// entries are resolved against Root, never against the process working directory.
type PathsConfig struct {
	Root           string `yaml:"root"`
	Manifest       string `yaml:"manifest"`
	SourceRoot     string `yaml:"source_root"`
	ChaptersDir    string `yaml:"chapters_dir"`
	OutputDir      string `yaml:"output_dir"`
	WorkspaceBase  string `yaml:"workspace_base,omitempty"` // empty means os.TempDir()
	InvocationRoot string `yaml:"invocation_root"`
	KeepWorkdir    bool   `yaml:"keep_workdir,omitempty"`
}

// ToolchainConfig describes the external typesetting tools.
type ToolchainConfig struct {
	Compiler       string        `yaml:"compiler"`
	Bibliography   string        `yaml:"bibliography"`
	CompilerPasses int           `yaml:"compiler_passes"` // passes after the bibliography step
	BibTerse       *bool         `yaml:"bib_terse,omitempty"`
	Timeout        time.Duration `yaml:"timeout,omitempty"` // per invocation; zero waits forever
}

// DocumentConfig controls the rendered document.
type DocumentConfig struct {
	BaseName         string `yaml:"base_name"`
	Title            string `yaml:"title"`
	Author           string `yaml:"author"`
	ListingID        string `yaml:"listing_id"`
	ListingSuffix    string `yaml:"listing_suffix"`
	ListingCaption   string `yaml:"listing_caption"`
	IncludeExercises bool   `yaml:"include_exercises,omitempty"`
	VerifyPDF        *bool  `yaml:"verify_pdf,omitempty"`
	StampRevision    *bool  `yaml:"stamp_revision,omitempty"`
}

// Load reads the configuration file at configPath. A missing file is not an
// error: the defaults describe the conventional repository layout.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if uerr := yaml.Unmarshal([]byte(expanded), &cfg); uerr != nil {
			return nil, errors.WrapError(uerr, errors.CategoryConfig, "failed to parse configuration").
				Fatal().
				WithContext("path", configPath).
				Build()
		}
	case os.IsNotExist(err):
		slog.Debug("Configuration file not found; using defaults", "path", configPath)
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration populated only with defaults, rooted at root.
func Default(root string) *Config {
	cfg := &Config{Paths: PathsConfig{Root: root}}
	applyDefaults(cfg)
	return cfg
}

// Validate checks invariants the defaults cannot repair.
func (c *Config) Validate() error {
	if c.Toolchain.CompilerPasses < MinCompilerPasses {
		return errors.ConfigError(fmt.Sprintf("toolchain.compiler_passes must be at least %d, got %d",
			MinCompilerPasses, c.Toolchain.CompilerPasses)).Build()
	}
	if strings.ContainsAny(c.Document.BaseName, `/\ []*?`) {
		return errors.ConfigError("document.base_name must be a plain file stem").
			WithContext("base_name", c.Document.BaseName).
			Build()
	}
	if c.Toolchain.Timeout < 0 {
		return errors.ConfigError("toolchain.timeout must not be negative").Build()
	}
	return nil
}

// Resolve joins a configured path with the root unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, p)
}

// ManifestPath returns the resolved manifest location.
func (c *Config) ManifestPath() string { return c.Resolve(c.Paths.Manifest) }

// SourceRoot returns the resolved listing search root.
func (c *Config) SourceRoot() string { return c.Resolve(c.Paths.SourceRoot) }

// ChaptersDir returns the resolved chapter fragment directory.
func (c *Config) ChaptersDir() string { return c.Resolve(c.Paths.ChaptersDir) }

// OutputDir returns the resolved output directory.
func (c *Config) OutputDir() string { return c.Resolve(c.Paths.OutputDir) }

// InvocationRoot returns the resolved directory swept for stray sources.
func (c *Config) InvocationRoot() string { return c.Resolve(c.Paths.InvocationRoot) }

// WorkspaceBase returns the resolved workspace parent directory, or empty for the OS temp dir.
func (c *Config) WorkspaceBase() string { return c.Resolve(c.Paths.WorkspaceBase) }

// VerifyPDF reports whether the finalizer should parse the compiled PDF.
func (c *Config) VerifyPDF() bool {
	return c.Document.VerifyPDF == nil || *c.Document.VerifyPDF
}

// StampRevision reports whether the title page should carry the source revision.
func (c *Config) StampRevision() bool {
	return c.Document.StampRevision == nil || *c.Document.StampRevision
}

// BibTerse reports whether the bibliography tool should run quietly.
func (c *Config) BibTerse() bool {
	return c.Toolchain.BibTerse == nil || *c.Toolchain.BibTerse
}
