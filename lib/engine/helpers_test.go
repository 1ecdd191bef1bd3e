package engine_test

import (
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/pescuma/git-reblame/lib/model"
)

func gitHash(id model.CommitID) plumbing.Hash {
	return plumbing.NewHash(string(id))
}
