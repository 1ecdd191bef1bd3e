package engine_test

import (
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/engine"
	"github.com/pescuma/git-reblame/lib/filters"
	"github.com/pescuma/git-reblame/lib/gitrepo"
	"github.com/pescuma/git-reblame/lib/gitrepo/gittest"
	"github.com/pescuma/git-reblame/lib/model"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestEngine(t *testing.T) {
	testgroup.RunInParallel(t, &EngineTests{})
}

type EngineTests struct {
}

func (g *EngineTests) setup(t *testgroup.T) (*gittest.Repo, engine.Repository) {
	test := gittest.NewRepo(t.T)
	repo := gitrepo.New(consoles.NewNullConsole(), test.Git, gitrepo.Options{AuthorName: "Me", AuthorEmail: "me@example.com"})
	return test, engine.Repository{
		WorkingTree: repo,
		History:     repo,
		Objects:     repo,
		Identity:    repo,
	}
}

func options() engine.Options {
	return engine.Options{
		Workers:          2,
		IncludeUntracked: true,
		NewMessage:       "Reformat code",
		Now:              func() time.Time { return now },
	}
}

func (g *EngineTests) commits(t *testgroup.T, test *gittest.Repo, ids []model.CommitID) []*object.Commit {
	result := make([]*object.Commit, len(ids))
	for i, id := range ids {
		c, err := test.Git.CommitObject(gitHash(id))
		t.Require.NoError(err)
		result[i] = c
	}
	return result
}

func (g *EngineTests) blameAuthors(t *testgroup.T, test *gittest.Repo, path string) []string {
	head := test.CommitObject(test.Head())
	blame, err := git.Blame(head, path)
	t.Require.NoError(err)

	var result []string
	for _, l := range blame.Lines {
		c := test.CommitObject(l.Hash)
		result = append(result, c.Author.Name)
	}
	return result
}

func (g *EngineTests) SplitsByAuthor(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "add file", map[string]string{"f.txt": "alpha\nbeta\n"})
	test.Commit("bob", "change beta", map[string]string{"f.txt": "alpha\ngamma\n"})
	oldHead := test.Head()

	test.Write("f.txt", "alpha \n gamma\n")

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())
	t.Require.NoError(err)
	t.Require.Len(ids, 2)

	commits := g.commits(t, test, ids)
	t.Equal("alice", commits[0].Author.Name)
	t.Equal("bob", commits[1].Author.Name)
	t.Equal(oldHead, commits[0].ParentHashes[0])
	t.Equal(commits[0].Hash, commits[1].ParentHashes[0])
	t.Contains(commits[0].Message, "automatic commit by git-reblame, original commits:")
	t.Equal("Me", commits[0].Committer.Name)

	t.Equal(gitHash(ids[1]), test.Head())
	t.Equal("alpha \n gamma\n", test.HeadFile("f.txt"))
	t.Equal([]string{"alice", "bob"}, g.blameAuthors(t, test, "f.txt"))
	t.True(test.Clean())
}

func (g *EngineTests) NewFileIsCommittedByCurrentAuthor(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\n"})

	test.Write("b.txt", "one\ntwo\nthree\n")

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())
	t.Require.NoError(err)
	t.Require.Len(ids, 1)

	c := g.commits(t, test, ids)[0]
	t.Equal("Me", c.Author.Name)
	t.True(now.Equal(c.Author.When))
	t.Equal("Reformat code\n", c.Message)
	t.Equal("one\ntwo\nthree\n", test.HeadFile("b.txt"))
	t.True(test.Clean())
}

func (g *EngineTests) UntrackedCanBeExcluded(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\n"})
	test.Write("b.txt", "b\n")

	opts := options()
	opts.IncludeUntracked = false

	plan, err := engine.MakePlan(consoles.NewNullConsole(), repo, opts)
	t.Require.NoError(err)
	t.Empty(plan.Groups)
	t.Equal([]engine.SkippedPath{{Path: "b.txt", Reason: "untracked"}}, plan.Skipped)

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, opts)
	t.NoError(err)
	t.Empty(ids)
}

func (g *EngineTests) RefusesStagedChanges(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\n"})
	head := test.Head()

	test.Write("a.txt", "a \n")
	test.Stage("a.txt")

	_, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())

	t.True(errors.Is(err, engine.ErrDirtyIndex))
	t.Equal(head, test.Head())
}

func (g *EngineTests) SecondRunCreatesNothing(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\nb\n"})
	test.Write("a.txt", "a;\nb;\n")

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())
	t.Require.NoError(err)
	t.Len(ids, 1)
	head := test.Head()

	ids, err = engine.Synthesize(consoles.NewNullConsole(), repo, options())
	t.NoError(err)
	t.Empty(ids)
	t.Equal(head, test.Head())
}

func (g *EngineTests) RemovedLinesAreCommitted(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\nb\nc\n"})
	test.Write("a.txt", "a\nc\n")

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())
	t.Require.NoError(err)
	t.Require.Len(ids, 1)

	t.Equal("Me", g.commits(t, test, ids)[0].Author.Name)
	t.Equal("a\nc\n", test.HeadFile("a.txt"))
	t.True(test.Clean())
}

func (g *EngineTests) FilteredPathsAreLeftAlone(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\n", "doc/b.md": "b\n"})
	test.Write("a.txt", "a \n")
	test.Write("doc/b.md", "b \n")

	rules, err := filters.ParsePathRules([]string{"!**/*.md"})
	t.Require.NoError(err)

	opts := options()
	opts.Paths = rules

	ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, opts)
	t.Require.NoError(err)
	t.Len(ids, 1)

	t.Equal("a \n", test.HeadFile("a.txt"))
	t.Equal("b\n", test.HeadFile("doc/b.md"))
	t.Equal("b \n", test.Read("doc/b.md"))
}

func (g *EngineTests) PlanDoesNotWrite(t *testgroup.T) {
	test, repo := g.setup(t)
	test.Commit("alice", "first", map[string]string{"a.txt": "a\n"})
	test.Commit("bob", "second", map[string]string{"b.txt": "b\n"})
	head := test.Head()
	test.Write("a.txt", "a \n")
	test.Write("b.txt", "b \n")

	plan, err := engine.MakePlan(consoles.NewNullConsole(), repo, options())
	t.Require.NoError(err)

	t.Equal(model.CommitID(head.String()), plan.Head)
	t.Len(plan.Files, 2)
	t.Equal("a.txt", plan.Files[0].Path())
	t.Require.Len(plan.Groups, 2)
	t.Equal("alice", plan.Groups[0].Author.Name)
	t.Equal("bob", plan.Groups[1].Author.Name)
	t.Equal(head, test.Head())
	t.False(test.Clean())
}

func (g *EngineTests) SameInputSameCommits(t *testgroup.T) {
	run := func() []model.CommitID {
		test, repo := g.setup(t)
		test.Commit("alice", "first", map[string]string{"a.txt": "a\nb\n", "c.txt": "c\n"})
		test.Commit("bob", "second", map[string]string{"a.txt": "a\nbb\n"})
		test.Write("a.txt", "a \nbb \n")
		test.Write("c.txt", "c \n")

		ids, err := engine.Synthesize(consoles.NewNullConsole(), repo, options())
		t.Require.NoError(err)
		return ids
	}

	t.Equal(run(), run())
}
