package orm

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
)

type countingReader struct {
	blames    map[string][]*model.Commit
	calls     int
	seqCalls  int
	available bool
}

func (r *countingReader) Blame(path string, commit model.CommitID) ([]*model.Commit, error) {
	r.calls++
	if !r.available {
		return nil, history.Unavailable(path, commit, nil)
	}
	return r.blames[path], nil
}

func (r *countingReader) Sequence(model.CommitID) (map[model.CommitID]int, error) {
	r.seqCalls++
	return map[model.CommitID]int{"a": 0}, nil
}

var (
	zone    = time.FixedZone("", -3*60*60)
	commitA = &model.Commit{
		ID:        "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Author:    model.Signature{Name: "Alice", Email: "alice@x", When: time.Date(2020, 1, 2, 3, 4, 5, 0, zone)},
		Committer: model.Signature{Name: "Carol", Email: "carol@x", When: time.Date(2020, 1, 3, 3, 4, 5, 0, time.UTC)},
		Message:   "Add a\n\nBody\n",
	}
	commitB = &model.Commit{
		ID:      "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Author:  model.Signature{Name: "Bob", Email: "bob@x", When: time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)},
		Message: "Add b\n",
	}
)

func assertSameCommits(t *testing.T, expected, actual []*model.Commit) {
	t.Helper()

	require.Len(t, actual, len(expected))
	for i := range expected {
		if expected[i] == nil {
			assert.Nil(t, actual[i])
			continue
		}

		require.NotNil(t, actual[i])
		assert.Equal(t, expected[i].ID, actual[i].ID)
		assert.Equal(t, expected[i].Author.Name, actual[i].Author.Name)
		assert.Equal(t, expected[i].Author.Email, actual[i].Author.Email)
		assert.True(t, expected[i].Author.When.Equal(actual[i].Author.When))
		assert.Equal(t, expected[i].Committer.Name, actual[i].Committer.Name)
		assert.Equal(t, expected[i].Message, actual[i].Message)
	}
}

func TestBlameCacheCallsReaderOnce(t *testing.T) {
	reader := &countingReader{available: true, blames: map[string][]*model.Commit{
		"f.go": {commitA, commitB, nil, commitA},
	}}

	cache, err := NewBlameCache(WithSqliteInMemory(), consoles.NewNullConsole(), reader, "test")
	require.NoError(t, err)
	defer cache.Close()

	first, err := cache.Blame("f.go", "head")
	require.NoError(t, err)
	second, err := cache.Blame("f.go", "head")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assertSameCommits(t, reader.blames["f.go"], first)
	assertSameCommits(t, reader.blames["f.go"], second)
}

func TestBlameCacheDoesNotCacheUnavailable(t *testing.T) {
	reader := &countingReader{available: false}

	cache, err := NewBlameCache(WithSqliteInMemory(), consoles.NewNullConsole(), reader, "test")
	require.NoError(t, err)
	defer cache.Close()

	_, err = cache.Blame("f.go", "head")
	assert.True(t, history.IsUnavailable(err))
	_, err = cache.Blame("f.go", "head")
	assert.True(t, history.IsUnavailable(err))

	assert.Equal(t, 2, reader.calls)
}

func TestBlameCachePersists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.sqlite")
	reader := &countingReader{available: true, blames: map[string][]*model.Commit{
		"f.go": {commitB, commitA},
	}}

	cache, err := NewBlameCache(WithSqlite(file), consoles.NewNullConsole(), reader, "test")
	require.NoError(t, err)
	_, err = cache.Blame("f.go", "head")
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	other := &countingReader{available: true}
	cache, err = NewBlameCache(WithSqlite(file), consoles.NewNullConsole(), other, "test")
	require.NoError(t, err)
	defer cache.Close()

	result, err := cache.Blame("f.go", "head")
	require.NoError(t, err)

	assert.Equal(t, 0, other.calls)
	assertSameCommits(t, reader.blames["f.go"], result)
}

func TestBlameCacheIsPerReader(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cache.sqlite")
	reader := &countingReader{available: true, blames: map[string][]*model.Commit{"f.go": {commitA}}}

	cache, err := NewBlameCache(WithSqlite(file), consoles.NewNullConsole(), reader, "go-git")
	require.NoError(t, err)
	_, err = cache.Blame("f.go", "head")
	require.NoError(t, err)
	require.NoError(t, cache.Close())

	other := &countingReader{available: true, blames: map[string][]*model.Commit{"f.go": {commitB}}}
	cache, err = NewBlameCache(WithSqlite(file), consoles.NewNullConsole(), other, "git")
	require.NoError(t, err)
	defer cache.Close()

	result, err := cache.Blame("f.go", "head")
	require.NoError(t, err)

	assert.Equal(t, 1, other.calls)
	assertSameCommits(t, []*model.Commit{commitB}, result)
}

func TestBlameCacheDelegatesSequence(t *testing.T) {
	reader := &countingReader{available: true}

	cache, err := NewBlameCache(WithSqliteInMemory(), consoles.NewNullConsole(), reader, "test")
	require.NoError(t, err)
	defer cache.Close()

	result, err := cache.Sequence("head")
	require.NoError(t, err)

	assert.Equal(t, map[model.CommitID]int{"a": 0}, result)
	assert.Equal(t, 1, reader.seqCalls)
}

func TestTableNames(t *testing.T) {
	n := NamingStrategy{}
	assert.Equal(t, "blames", n.TableName("sqlBlame"))
	assert.Equal(t, "commits", n.TableName("sqlCommit"))
}

func TestBlameCacheIgnoresRowsWithUnknownCommits(t *testing.T) {
	reader := &countingReader{available: true, blames: map[string][]*model.Commit{"f.go": {commitA}}}

	cache, err := NewBlameCache(WithSqliteInMemory(), consoles.NewNullConsole(), reader, "test")
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.db.Create(newSqlBlame("test", "head", "f.go", []*model.Commit{commitB})).Error)

	first, err := cache.Blame("f.go", "head")
	require.NoError(t, err)
	second, err := cache.Blame("f.go", "head")
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls)
	assertSameCommits(t, []*model.Commit{commitA}, first)
	assertSameCommits(t, []*model.Commit{commitA}, second)
}
