// Package gitinfo reads the revision of the repository that holds the
// report sources so the document can be stamped with it.
package gitinfo

import (
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ShortLength is the number of hex digits in a short revision.
const ShortLength = 7

// ErrNoRepository is returned when dir is not inside a git work tree.
var ErrNoRepository = stderrors.New("not a git repository")

// Revision identifies the HEAD commit.
type Revision struct {
	Hash   string
	Branch string // empty for a detached HEAD
}

// Short returns the abbreviated hash.
func (r Revision) Short() string {
	if len(r.Hash) <= ShortLength {
		return r.Hash
	}
	return r.Hash[:ShortLength]
}

// String renders "<short>" or "<branch>@<short>".
func (r Revision) String() string {
	if r.Branch == "" {
		return r.Short()
	}
	return r.Branch + "@" + r.Short()
}

// Head resolves HEAD for the repository containing dir, searching parent
// directories for .git.
func Head(dir string) (Revision, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, fmt.Errorf("%w: %s", ErrNoRepository, dir)
		}
		return Revision{}, fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	rev := Revision{Hash: ref.Hash().String()}
	if ref.Name() != plumbing.HEAD && ref.Name().IsBranch() {
		rev.Branch = ref.Name().Short()
	}
	return rev, nil
}
