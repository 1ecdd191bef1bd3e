package model

import (
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

type PathStatus int

const (
	PathModified PathStatus = iota
	PathUntracked
	PathDeleted
)

func (s PathStatus) String() string {
	switch s {
	case PathModified:
		return "modified"
	case PathUntracked:
		return "untracked"
	case PathDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ChangedPath is a path whose working tree content differs from the head
// commit.
type ChangedPath struct {
	Path   string
	Status PathStatus
}
