package synthesizer

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
)

// ErrRefUpdateConflict is returned when the branch no longer points to the
// commit the run started from.
var ErrRefUpdateConflict = errors.New("branch was updated by someone else")

// FilePatch replaces the whole content of a path in a tree.
type FilePatch struct {
	Path    string
	Content []byte
	Mode    filemode.FileMode
}

type ObjectStore interface {
	CommitTree(commit model.CommitID) (model.TreeID, error)

	// CreateTree returns a tree equal to base with patches applied. Paths not
	// in patches are kept as they are in base.
	CreateTree(base model.TreeID, patches []FilePatch) (model.TreeID, error)

	CreateCommit(parent model.CommitID, tree model.TreeID, author, committer model.Signature, message string) (model.CommitID, error)

	// UpdateRef moves the current branch from old to new, failing with
	// ErrRefUpdateConflict if it does not point to old anymore.
	UpdateRef(old, new model.CommitID) error
}

type Identity interface {
	CurrentAuthor() (model.Signature, error)
}

// ObjectWriteError aborts a run. Commits synthesized before the failure are
// left unreferenced.
type ObjectWriteError struct {
	Synthesized int
	Err         error
}

func (e *ObjectWriteError) Error() string {
	return fmt.Sprintf("error writing objects after %v synthesized commits: %v", e.Synthesized, e.Err)
}

func (e *ObjectWriteError) Unwrap() error {
	return e.Err
}

func (e *ObjectWriteError) Cause() error {
	return e.Err
}
