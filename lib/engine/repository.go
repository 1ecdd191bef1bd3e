package engine

import (
	"github.com/go-git/go-git/v5/plumbing/filemode"

	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/synthesizer"
)

type WorkingTree interface {
	Head() (model.CommitID, error)

	// StagedPaths lists the paths whose index entry differs from the head.
	StagedPaths() ([]string, error)
	ChangedPaths() ([]model.ChangedPath, error)

	// OldContent returns model.ErrNotFound when path does not exist at head.
	OldContent(path string) ([]byte, error)
	NewContent(path string) ([]byte, error)
	FileMode(path string) (filemode.FileMode, error)

	// ClearChanges makes the index match commit, after the working tree
	// content has been committed.
	ClearChanges(commit model.CommitID) error
}

// Repository bundles everything the engine needs from a git repository.
type Repository struct {
	WorkingTree WorkingTree
	History     history.Reader
	Objects     synthesizer.ObjectStore
	Identity    synthesizer.Identity
}

// PathMatcher selects the paths to process.
type PathMatcher interface {
	Matches(path string) bool
}
