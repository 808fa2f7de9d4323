package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "algorithms", "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "algorithms", "src", "insertion_sort.rs"), []byte("fn main() {}\n"), 0o600))

	w, err := repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(".")
	require.NoError(t, err)
	hash, err := w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestHeadFromSubdirectory(t *testing.T) {
	dir, hash := initRepo(t)

	rev, err := Head(filepath.Join(dir, "algorithms", "src"))
	require.NoError(t, err)
	assert.Equal(t, hash, rev.Hash)
	assert.Equal(t, hash[:ShortLength], rev.Short())
	assert.Equal(t, "master", rev.Branch)
	assert.Equal(t, "master@"+hash[:ShortLength], rev.String())
}

func TestHeadOutsideRepository(t *testing.T) {
	_, err := Head(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestRevisionShortOfShortHash(t *testing.T) {
	assert.Equal(t, "abc", Revision{Hash: "abc"}.Short())
	assert.Equal(t, "abc", Revision{Hash: "abc"}.String())
}
