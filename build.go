package main

import (
	"github.com/pescuma/go-build"
)

func main() {
	cfg := build.NewBuilderConfig()
	cfg.Archs = []string{
		"darwin/amd64",
		"darwin/arm64",
		"linux/386",
		"linux/amd64",
		//"windows/386", the blame cache uses go-sqlite, which does not compile there
		"windows/amd64",
	}

	b, err := build.NewBuilder(cfg)
	if err != nil {
		panic(err)
	}

	b.Targets.Add("release", []string{"license-check", "build", "test", "zip"}, nil)

	err = b.RunTarget("release")
	if err != nil {
		panic(err)
	}
}
