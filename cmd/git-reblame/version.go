package main

import (
	"fmt"
)

// Set by the build.
var version = "dev"

type VersionCmd struct {
}

func (c *VersionCmd) Run(ctx *context) error {
	fmt.Printf("git-reblame %v\n", version)
	return nil
}
