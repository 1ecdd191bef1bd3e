package main

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/engine"
	"github.com/pescuma/git-reblame/lib/filters"
)

type cmdWithFilters struct {
	Paths []string `arg:"" optional:"" help:"Only process these paths. Accepts globs, dirs ending in /, and re: regular expressions."`

	Include []string `short:"i" help:"Only process paths matching these rules."`
	Exclude []string `short:"e" help:"Do not process paths matching these rules. This has preference over the included ones."`
}

func (c *cmdWithFilters) createFilter() (engine.PathMatcher, error) {
	var rules []string
	rules = append(rules, c.Paths...)
	rules = append(rules, c.Include...)

	for _, e := range c.Exclude {
		rules = append(rules, "!"+strings.TrimPrefix(e, "!"))
	}

	if len(rules) == 0 {
		return nil, nil
	}

	return filters.ParsePathRules(rules)
}

type cmdWithEngineOptions struct {
	cmdWithFilters

	MinSimilarity    float64 `default:"0" help:"Replaced lines less similar than this (0 to 1) to the line they replace are considered new."`
	Workers          int     `default:"0" help:"Number of files analysed in parallel. 0 uses the number of CPUs."`
	IncludeUntracked bool    `default:"true" negatable:"" help:"Also commit untracked files, as new lines."`
	NewMessage       string  `default:"Reformat code" help:"Message of the commit with lines that have no previous author."`
	Progress         bool    `default:"true" negatable:"" help:"Show progress bars."`
}

func (c *cmdWithEngineOptions) engineOptions() (engine.Options, error) {
	filter, err := c.createFilter()
	if err != nil {
		return engine.Options{}, err
	}

	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return engine.Options{}, errors.Errorf("min similarity must be between 0 and 1: %v", c.MinSimilarity)
	}

	return engine.Options{
		MinSimilarity:    c.MinSimilarity,
		Workers:          c.Workers,
		IncludeUntracked: c.IncludeUntracked,
		Paths:            filter,
		NewMessage:       c.NewMessage,
		Progress:         c.Progress,
	}, nil
}
