package workspace

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/clrsreport/internal/foundation/errors"
)

func TestManager_EphemeralMode(t *testing.T) {
	mgr := NewManager(t.TempDir())
	require.NoError(t, mgr.Create())

	wsPath := mgr.GetPath()
	require.NotEmpty(t, wsPath)
	assert.True(t, strings.HasPrefix(filepath.Base(wsPath), "clrsreport-"))
	assert.DirExists(t, wsPath)

	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, wsPath)
	assert.Empty(t, mgr.GetPath())

	// Second cleanup is a no-op.
	require.NoError(t, mgr.Cleanup())
}

func TestManager_EphemeralDirectoriesAreDistinct(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base), NewManager(base)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	defer func() { _ = a.Cleanup(); _ = b.Cleanup() }()

	assert.NotEqual(t, a.GetPath(), b.GetPath())
}

func TestManager_CreatesMissingBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "base")
	mgr := NewManager(base)
	require.NoError(t, mgr.Create())
	assert.Equal(t, base, filepath.Dir(mgr.GetPath()))
	require.NoError(t, mgr.Cleanup())
}

func TestManager_PersistentMode(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewPersistentManager(tempBase, "working")
	require.NoError(t, mgr.Create())

	wsPath := mgr.GetPath()
	assert.Equal(t, filepath.Join(tempBase, "working"), wsPath)
	assert.True(t, mgr.Persistent())

	marker := filepath.Join(wsPath, "CLRS_Analysis_Report.log")
	require.NoError(t, os.WriteFile(marker, []byte("log"), 0o600))

	require.NoError(t, mgr.Cleanup())
	assert.FileExists(t, marker)
}

func TestManager_DefaultSubdirName(t *testing.T) {
	tempBase := t.TempDir()
	mgr := NewPersistentManager(tempBase, "")
	require.NoError(t, mgr.Create())
	assert.Equal(t, filepath.Join(tempBase, "working"), mgr.GetPath())
}

func TestManager_CleanupFailureIsWarning(t *testing.T) {
	mgr := NewManager(t.TempDir())
	require.NoError(t, mgr.Create())
	path := mgr.GetPath()
	mgr.removeAll = func(string) error { return stderrors.New("device busy") }

	err := mgr.Cleanup()
	require.Error(t, err)
	assert.True(t, errors.HasSeverity(err, errors.SeverityWarning))
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.Equal(t, path, mgr.GetPath(), "path kept so cleanup can be retried")

	mgr.removeAll = os.RemoveAll
	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, path)
}

func TestManager_CleanupBeforeCreate(t *testing.T) {
	assert.NoError(t, NewManager(t.TempDir()).Cleanup())
}
