// Package gittest creates in-memory git repositories for tests.
package gittest

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

type Repo struct {
	t        *testing.T
	Git      *git.Repository
	Worktree *git.Worktree
	when     time.Time
}

func NewRepo(t *testing.T) *Repo {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &Repo{
		t:        t,
		Git:      repo,
		Worktree: wt,
		when:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *Repo) Write(path string, content string) {
	err := util.WriteFile(r.Worktree.Filesystem, path, []byte(content), 0o644)
	require.NoError(r.t, err)
}

func (r *Repo) Remove(path string) {
	err := r.Worktree.Filesystem.Remove(path)
	require.NoError(r.t, err)
}

func (r *Repo) Read(path string) string {
	content, err := util.ReadFile(r.Worktree.Filesystem, path)
	require.NoError(r.t, err)
	return string(content)
}

func (r *Repo) Stage(path string) {
	_, err := r.Worktree.Add(path)
	require.NoError(r.t, err)
}

// Commit writes files, stages them and commits as author. Every commit is one
// hour after the previous one.
func (r *Repo) Commit(author string, message string, files map[string]string) plumbing.Hash {
	for path, content := range files {
		r.Write(path, content)
		r.Stage(path)
	}

	r.when = r.when.Add(time.Hour)
	sig := &object.Signature{Name: author, Email: author + "@example.com", When: r.when}

	hash, err := r.Worktree.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)

	return hash
}

func (r *Repo) Head() plumbing.Hash {
	ref, err := r.Git.Head()
	require.NoError(r.t, err)
	return ref.Hash()
}

func (r *Repo) HeadFile(path string) string {
	commit, err := r.Git.CommitObject(r.Head())
	require.NoError(r.t, err)

	file, err := commit.File(path)
	require.NoError(r.t, err)

	content, err := file.Contents()
	require.NoError(r.t, err)

	return content
}

func (r *Repo) CommitObject(hash plumbing.Hash) *object.Commit {
	commit, err := r.Git.CommitObject(hash)
	require.NoError(r.t, err)
	return commit
}

// Clean returns true when nothing is staged or modified, ignoring untracked
// files.
func (r *Repo) Clean() bool {
	status, err := r.Worktree.Status()
	require.NoError(r.t, err)

	for _, s := range status {
		if s.Worktree == git.Untracked && s.Staging == git.Untracked {
			continue
		}
		if s.Worktree != git.Unmodified || s.Staging != git.Unmodified {
			return false
		}
	}
	return true
}
