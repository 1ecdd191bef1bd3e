package gitrepo

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/caches"
	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/utils"
)

type Options struct {
	// AuthorName and AuthorEmail override the user from git config.
	AuthorName  string
	AuthorEmail string
}

// Repository implements the working tree, object store, identity and history
// reader on top of go-git.
type Repository struct {
	console consoles.Console
	repo    *git.Repository
	options Options

	commits *caches.Cache[plumbing.Hash, *model.Commit]
}

func Open(console consoles.Console, dir string, options Options) (*Repository, error) {
	dir, err := utils.PathAbs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error opening git repository at %v", dir)
	}

	return New(console, repo, options), nil
}

func New(console consoles.Console, repo *git.Repository, options Options) *Repository {
	return &Repository{
		console: console,
		repo:    repo,
		options: options,
		commits: caches.NewCache[plumbing.Hash, *model.Commit](),
	}
}

func (r *Repository) Git() *git.Repository {
	return r.repo
}

// RootDir returns the top level directory of the working tree.
func (r *Repository) RootDir() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", errors.Wrap(err, "repository has no working tree")
	}

	return wt.Filesystem.Root(), nil
}

func toHash(id model.CommitID) plumbing.Hash {
	return plumbing.NewHash(string(id))
}

func toCommitID(hash plumbing.Hash) model.CommitID {
	return model.CommitID(hash.String())
}
