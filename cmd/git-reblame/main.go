package main

import (
	"github.com/alecthomas/kong"

	"github.com/pescuma/git-reblame/lib/config"
	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/workspace"
)

var cli struct {
	Repo      string `short:"C" default:"." help:"Path inside the git repository." type:"path"`
	Blame     string `enum:"go-git,git" default:"go-git" help:"How to read blame: go-git or git (requires git in path, follows moved lines)."`
	Cache     bool   `default:"true" negatable:"" help:"Store blame results between runs."`
	CacheFile string `default:"~/.git-reblame/cache.sqlite" help:"File used to store blame results. Use :memory: to keep them only during this run."`

	AuthorName  string `help:"Name used as committer and as author of new lines. Default is user.name from git config."`
	AuthorEmail string `help:"Email used as committer and as author of new lines. Default is user.email from git config."`

	Verbose bool            `short:"v" help:"Show details about each file."`
	Config  kong.ConfigFlag `help:"Load flag defaults from this YAML file."`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Commit the working tree modifications, one commit per original commit."`
	Plan    PlanCmd    `cmd:"" help:"Show which commits would be created, without creating them."`
	Version VersionCmd `cmd:"" help:"Show the version."`
}

type context struct {
	console consoles.Console
	options workspace.Options
}

func (c *context) openWorkspace() (*workspace.Workspace, error) {
	return workspace.NewWorkspace(c.console, c.options)
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("git-reblame"),
		kong.Description("Commits code formatter changes while keeping the blame of every line."),
		kong.ShortUsageOnError(),
		kong.Configuration(config.Loader, config.Paths...),
	)

	options := workspace.Options{
		Dir:         cli.Repo,
		Blame:       cli.Blame,
		AuthorName:  cli.AuthorName,
		AuthorEmail: cli.AuthorEmail,
		Verbose:     cli.Verbose,
	}
	if cli.Cache {
		options.CacheFile = cli.CacheFile
	}

	err := ctx.Run(&context{
		console: consoles.NewStdOutConsole(cli.Verbose),
		options: options,
	})
	ctx.FatalIfErrorf(err)
}
