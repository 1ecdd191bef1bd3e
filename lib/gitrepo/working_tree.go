package gitrepo

import (
	"sort"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
)

var ErrNoCommits = errors.New("repository has no commits")

func (r *Repository) Head() (model.CommitID, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", ErrNoCommits
	} else if err != nil {
		return "", errors.Wrap(err, "error reading HEAD")
	}

	return toCommitID(ref.Hash()), nil
}

func (r *Repository) status() (git.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "error opening worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, errors.Wrap(err, "error reading worktree status")
	}

	return status, nil
}

// StagedPaths lists the paths whose index entry differs from HEAD.
func (r *Repository) StagedPaths() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var result []string
	for path, s := range status {
		if s.Staging != git.Unmodified && s.Staging != git.Untracked {
			result = append(result, path)
		}
	}
	sort.Strings(result)

	return result, nil
}

func (r *Repository) ChangedPaths() ([]model.ChangedPath, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var result []model.ChangedPath
	for path, s := range status {
		switch s.Worktree {
		case git.Untracked:
			result = append(result, model.ChangedPath{Path: path, Status: model.PathUntracked})
		case git.Deleted:
			result = append(result, model.ChangedPath{Path: path, Status: model.PathDeleted})
		case git.Unmodified:
		default:
			result = append(result, model.ChangedPath{Path: path, Status: model.PathModified})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

// OldContent returns the content of path at HEAD, or model.ErrNotFound.
func (r *Repository) OldContent(path string) ([]byte, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "error reading HEAD")
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, errors.Wrapf(err, "error reading commit %v", ref.Hash())
	}

	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, model.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrapf(err, "error reading %v at HEAD", path)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %v at HEAD", path)
	}

	return []byte(contents), nil
}

func (r *Repository) NewContent(path string) ([]byte, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "error opening worktree")
	}

	result, err := util.ReadFile(wt.Filesystem, path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %v", path)
	}

	return result, nil
}

func (r *Repository) FileMode(path string) (filemode.FileMode, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return filemode.Empty, errors.Wrap(err, "error opening worktree")
	}

	fi, err := wt.Filesystem.Lstat(path)
	if err != nil {
		return filemode.Empty, errors.Wrapf(err, "error reading %v", path)
	}

	return filemode.NewFromOSFileMode(fi.Mode())
}

// ClearChanges resets the index to commit. Working tree files are not
// touched.
func (r *Repository) ClearChanges(commit model.CommitID) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return errors.Wrap(err, "error opening worktree")
	}

	err = wt.Reset(&git.ResetOptions{
		Commit: toHash(commit),
		Mode:   git.MixedReset,
	})
	if err != nil {
		return errors.Wrapf(err, "error resetting index to %v", commit.Short())
	}

	return nil
}
