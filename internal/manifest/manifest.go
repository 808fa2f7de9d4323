// Package manifest loads the declarative chapter list that drives report generation.
package manifest

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
)

// Manifest is the ordered list of report chapters. List order is document order.
type Manifest struct {
	Chapters  []Item `yaml:"chapters"`
	Exercises []Item `yaml:"exercises"`
}

// Item is one unit of report content.
type Item struct {
	ID         string  `yaml:"id"`
	Title      string  `yaml:"title"`
	Pseudocode *string `yaml:"pseudocode,omitempty"`
}

// HasPseudocode reports whether the item carries inline fallback content.
func (i Item) HasPseudocode() bool {
	return i.Pseudocode != nil
}

// rawManifest distinguishes an absent chapters key from an empty list.
type rawManifest struct {
	Chapters  *[]Item `yaml:"chapters"`
	Exercises []Item  `yaml:"exercises"`
}

var stemPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	m, err := Parse(data)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes manifest YAML and validates it.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse manifest").Fatal().Build()
	}
	if raw.Chapters == nil {
		return nil, errors.ConfigError("manifest has no chapters list").Build()
	}

	m := &Manifest{Chapters: *raw.Chapters, Exercises: raw.Exercises}
	if m.Exercises == nil {
		m.Exercises = []Item{}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate enforces that ids are usable file stems and that chapter ids are unique.
func (m *Manifest) Validate() error {
	if err := validateItems("chapters", m.Chapters); err != nil {
		return err
	}
	return validateItems("exercises", m.Exercises)
}

func validateItems(section string, items []Item) error {
	seen := make(map[string]int, len(items))
	for idx, it := range items {
		if !ValidID(it.ID) {
			return errors.ConfigError(fmt.Sprintf("%s[%d]: id %q is not a valid file stem", section, idx, it.ID)).
				WithContext("id", it.ID).
				Build()
		}
		if it.Title == "" {
			return errors.ConfigError(fmt.Sprintf("%s[%d]: title is required", section, idx)).
				WithContext("id", it.ID).
				Build()
		}
		if prev, dup := seen[it.ID]; dup {
			return errors.ConfigError(fmt.Sprintf("%s[%d]: duplicate id %q (first declared at index %d)", section, idx, it.ID, prev)).
				WithContext("id", it.ID).
				Build()
		}
		seen[it.ID] = idx
	}
	return nil
}

// ValidID reports whether id can be used as a file stem.
func ValidID(id string) bool {
	if id == "." || id == ".." {
		return false
	}
	return stemPattern.MatchString(id)
}
