package main

import (
	"github.com/pescuma/git-reblame/lib/common"
)

type RunCmd struct {
	cmdWithEngineOptions
}

func (c *RunCmd) Run(ctx *context) error {
	opts, err := c.engineOptions()
	if err != nil {
		return err
	}

	ws, err := ctx.openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	commits, err := ws.Synthesize(opts)
	if err != nil {
		return err
	}

	for _, commit := range commits {
		ctx.console.Printf("%v %v: %v\n", commit.ID.Short(), commit.Author.Name, common.Subject(commit.Message, 60))
	}

	if len(commits) > 0 {
		ctx.console.Printf("Created %v\n", common.Count(len(commits), "commit"))
	}

	return nil
}
