package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
	"git.home.luguber.info/inful/clrsreport/internal/logfields"
)

// Manager handles workspace operations (both temporary and persistent)
type Manager struct {
	baseDir    string
	tempDir    string
	persistent bool // If true, use baseDir/subdir directly and keep it on cleanup
	removeAll  func(string) error
}

// NewManager creates a new workspace manager with ephemeral directories.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{
		baseDir:   baseDir,
		removeAll: os.RemoveAll,
	}
}

// NewPersistentManager creates a workspace manager that uses a fixed directory
// (baseDir/subdirName) and leaves it in place on Cleanup.
func NewPersistentManager(baseDir, subdirName string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if subdirName == "" {
		subdirName = "working"
	}
	return &Manager{
		baseDir:    baseDir,
		tempDir:    filepath.Join(baseDir, subdirName),
		persistent: true,
		removeAll:  os.RemoveAll,
	}
}

// Create creates the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.tempDir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create persistent workspace directory").
				Fatal().WithContext("path", m.tempDir).Build()
		}
		slog.Info("Using persistent workspace", logfields.Path(m.tempDir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace base directory").
			Fatal().WithContext("path", m.baseDir).Build()
	}

	name := fmt.Sprintf("clrsreport-%s-%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	tempDir := filepath.Join(m.baseDir, name)
	// Mkdir rather than MkdirAll: an existing directory must not be reused.
	if err := os.Mkdir(tempDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace directory").
			Fatal().WithContext("path", tempDir).Build()
	}

	m.tempDir = tempDir
	slog.Debug("Created workspace", logfields.Path(tempDir))
	return nil
}

// GetPath returns the path to the workspace directory
func (m *Manager) GetPath() string {
	return m.tempDir
}

// Persistent reports whether the workspace survives Cleanup.
func (m *Manager) Persistent() bool {
	return m.persistent
}

// Cleanup removes the workspace directory. It is safe to call more than once.
// A removal failure is returned with warning severity: the build result is
// still valid, but the caller should report the leftover directory.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}

	if m.persistent {
		slog.Debug("Skipping cleanup for persistent workspace", logfields.Path(m.tempDir))
		return nil
	}

	if err := m.removeAll(m.tempDir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to cleanup workspace").
			Warning().
			WithContext("path", m.tempDir).
			Build()
	}

	slog.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}
