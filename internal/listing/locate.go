package listing

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
)

// DefaultSuffix is the file extension of source listings.
const DefaultSuffix = ".rs"

// Locator searches a source tree for listing files.
type Locator struct {
	Suffix   string
	SkipDirs []string
}

// NewLocator returns a Locator for files ending in suffix.
func NewLocator(suffix string) *Locator {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Locator{Suffix: suffix, SkipDirs: []string{".git"}}
}

// Locate returns the path of the file named id+suffix below root.
func Locate(root, id string) (string, error) {
	return NewLocator(DefaultSuffix).Locate(root, id)
}

// Locate returns the lexically first file named id+Suffix below root.
func (l *Locator) Locate(root, id string) (string, error) {
	matches, err := l.FindAll(root, id)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.NotFoundError("no source listing matches chapter id").
			WithContext("id", id).
			WithContext("path", root).
			Build()
	}
	if len(matches) > 1 {
		slog.Warn("Listing id matches several files; using the first in lexical order",
			logfields.Chapter(id),
			logfields.Path(matches[0]),
			slog.Any("candidates", matches))
	}
	return matches[0], nil
}

// FindAll returns every file named id+Suffix below root in lexical walk order.
func (l *Locator) FindAll(root, id string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "source root is not accessible").
			Fatal().
			WithContext("path", root).
			Build()
	}

	want := id + l.Suffix
	var matches []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && l.skip(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == want {
			matches = append(matches, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "failed to walk source tree").
			Fatal().
			WithContext("path", root).
			Build()
	}
	return matches, nil
}

func (l *Locator) skip(name string) bool {
	for _, s := range l.SkipDirs {
		if s == name {
			return true
		}
	}
	return false
}

// Load locates, reads and sanitizes the listing for id.
func (l *Locator) Load(root, id string) (string, string, error) {
	path, err := l.Locate(root, id)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", errors.WrapError(err, errors.CategoryFileSystem, "failed to read source listing").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return path, Sanitize(string(data)), nil
}
