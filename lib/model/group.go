package model

import (
	"sort"

	"github.com/samber/lo"
)

type GroupLine struct {
	Path    string
	Line    int
	Content string
}

type GroupRemoval struct {
	Path    string
	OldLine int
}

// OriginGroup holds all changed lines that share the same origin commit. The
// group with a nil Origin carries new content and is authored by the current
// user.
type OriginGroup struct {
	Origin   *Commit
	Author   Signature
	Lines    []GroupLine
	Removals []GroupRemoval

	// Commits lists the original commits that contributed to the group.
	Commits []CommitID
}

func (g *OriginGroup) IsNew() bool {
	return g.Origin == nil
}

func (g *OriginGroup) Key() CommitID {
	if g.Origin == nil {
		return ZeroCommitID
	}
	return g.Origin.ID
}

func (g *OriginGroup) Paths() []string {
	result := lo.Map(g.Lines, func(l GroupLine, _ int) string { return l.Path })
	result = append(result, lo.Map(g.Removals, func(r GroupRemoval, _ int) string { return r.Path })...)
	result = lo.Uniq(result)
	sort.Strings(result)
	return result
}

func (g *OriginGroup) Size() int {
	return len(g.Lines) + len(g.Removals)
}

type SynthesizedCommit struct {
	ID        CommitID
	Parent    CommitID
	Tree      TreeID
	Author    Signature
	Committer Signature
	Message   string
	Group     *OriginGroup
}
