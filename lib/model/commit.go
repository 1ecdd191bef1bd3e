package model

import (
	"fmt"
	"strings"
	"time"
)

type CommitID string

const ZeroCommitID CommitID = ""

func (c CommitID) String() string {
	return string(c)
}

func (c CommitID) Short() string {
	if len(c) > 10 {
		return string(c[:10])
	}
	return string(c)
}

func (c CommitID) IsZero() bool {
	return c == ZeroCommitID || strings.Trim(string(c), "0") == ""
}

type TreeID string

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

func (s Signature) String() string {
	return fmt.Sprintf("%v <%v>", s.Name, s.Email)
}

type Commit struct {
	ID        CommitID
	Author    Signature
	Committer Signature
	Message   string
}

func (c *Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return strings.TrimSpace(subject)
}
