package gitrepo

import (
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"v.io/x/lib/toposort"

	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
)

func (r *Repository) Blame(path string, commit model.CommitID) ([]*model.Commit, error) {
	c, err := r.repo.CommitObject(toHash(commit))
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, history.Unavailable(path, commit, err)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error reading commit %v", commit.Short())
	}

	_, err = c.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, history.Unavailable(path, commit, err)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error reading %v at %v", path, commit.Short())
	}

	blame, err := git.Blame(c, path)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		// Shallow clones are missing the older commits.
		return nil, history.Unavailable(path, commit, err)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error blaming %v at %v", path, commit.Short())
	}

	result := make([]*model.Commit, len(blame.Lines))
	for i, line := range blame.Lines {
		result[i], err = r.commit(line.Hash)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (r *Repository) commit(hash plumbing.Hash) (*model.Commit, error) {
	return r.commits.Get(hash, func(hash plumbing.Hash) (*model.Commit, error) {
		c, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading commit %v", hash)
		}

		return toModelCommit(c), nil
	})
}

func toModelCommit(c *object.Commit) *model.Commit {
	return &model.Commit{
		ID: toCommitID(c.Hash),
		Author: model.Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: model.Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message: c.Message,
	}
}

func (r *Repository) Sequence(head model.CommitID) (map[model.CommitID]int, error) {
	shallow, err := r.repo.Storer.Shallow()
	if err != nil {
		return nil, errors.Wrap(err, "error reading shallow commits")
	}
	boundary := make(map[plumbing.Hash]bool, len(shallow))
	for _, s := range shallow {
		boundary[s] = true
	}

	commits, err := r.repo.Log(&git.LogOptions{
		From:  toHash(head),
		Order: git.LogOrderDFS,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error reading history of %v", head.Short())
	}
	defer commits.Close()

	graph := toposort.Sorter{}
	err = commits.ForEach(func(c *object.Commit) error {
		graph.AddNode(c.Hash)
		if boundary[c.Hash] {
			return nil
		}

		for _, p := range c.ParentHashes {
			graph.AddEdge(c.Hash, p)
		}
		return nil
	})
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, history.Unavailable("history", head, err)
	} else if err != nil {
		return nil, errors.Wrapf(err, "error reading history of %v", head.Short())
	}

	sorted, _ := graph.Sort()

	result := make(map[model.CommitID]int, len(sorted))
	for i, s := range sorted {
		result[toCommitID(s.(plumbing.Hash))] = i
	}

	return result, nil
}
