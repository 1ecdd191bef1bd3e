package config

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	values, err := Load(strings.NewReader(`
blame: git
min_similarity: 0.5
workers: 4
include-untracked: false
filter:
  - "src/"
  - "!src/gen/"
new_message: Format code
`))
	require.NoError(t, err)

	assert.Equal(t, Values{
		"blame":             "git",
		"min-similarity":    "0.5",
		"workers":           "4",
		"include-untracked": "false",
		"filter":            "src/,!src/gen/",
		"new-message":       "Format code",
	}, values)

	v, ok := values.Get("min_similarity")
	assert.True(t, ok)
	assert.Equal(t, "0.5", v)
}

func TestLoadEmpty(t *testing.T) {
	values, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(strings.NewReader("a: {b: 1}"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("a: [b"))
	assert.Error(t, err)
}

type testCLI struct {
	Blame         string   `default:"go-git"`
	MinSimilarity float64  `default:"0"`
	Workers       int      `default:"1"`
	Verbose       bool
	Filter        []string
}

func TestResolverProvidesDefaults(t *testing.T) {
	values, err := Load(strings.NewReader("blame: git\nmin_similarity: 0.25\nverbose: true\nfilter: [a, b]\nworkers: 3\n"))
	require.NoError(t, err)

	var cli testCLI
	parser, err := kong.New(&cli, kong.Resolvers(values.Resolver()))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--workers=8"})
	require.NoError(t, err)

	assert.Equal(t, "git", cli.Blame)
	assert.Equal(t, 0.25, cli.MinSimilarity)
	assert.Equal(t, 8, cli.Workers)
	assert.True(t, cli.Verbose)
	assert.Equal(t, []string{"a", "b"}, cli.Filter)
}
