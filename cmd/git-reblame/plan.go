package main

import (
	"fmt"
	"strings"

	"github.com/pescuma/git-reblame/lib/common"
	"github.com/pescuma/git-reblame/lib/engine"
)

type PlanCmd struct {
	cmdWithEngineOptions
}

func (c *PlanCmd) Run(ctx *context) error {
	opts, err := c.engineOptions()
	if err != nil {
		return err
	}
	opts.Progress = false

	ws, err := ctx.openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	plan, err := ws.Plan(opts)
	if err != nil {
		return err
	}

	fmt.Print(formatPlan(plan, opts.NewMessage))

	return nil
}

func formatPlan(plan *engine.Plan, newMessage string) string {
	sb := strings.Builder{}

	for i, g := range plan.Groups {
		subject := newMessage
		when := ""
		if !g.IsNew() {
			subject = g.Origin.Subject()
			when = " (" + common.RelativeTime(g.Origin.Author.When) + ")"
		}

		sb.WriteString(fmt.Sprintf("%v. %v%v: %v\n", i+1, g.Author.Name, when, common.Subject(subject, 60)))
		sb.WriteString(fmt.Sprintf("   %v, %v in %v\n",
			common.Count(len(g.Lines), "line"), common.Count(len(g.Removals), "removal"),
			common.Count(len(g.Paths()), "file")))
	}

	for _, s := range plan.Skipped {
		sb.WriteString(fmt.Sprintf("skipped %v: %v\n", s.Path, s.Reason))
	}

	return sb.String()
}
