package model

import (
	"fmt"
)

// LineOrigin tells where the content of a new line comes from. A nil Commit
// means the line is new content, attributed to the current author.
type LineOrigin struct {
	Commit  *Commit
	OldLine int
}

var NewOrigin = LineOrigin{OldLine: -1}

func InheritedOrigin(commit *Commit, oldLine int) LineOrigin {
	return LineOrigin{Commit: commit, OldLine: oldLine}
}

func (o LineOrigin) IsNew() bool {
	return o.Commit == nil
}

func (o LineOrigin) Key() CommitID {
	if o.Commit == nil {
		return ZeroCommitID
	}
	return o.Commit.ID
}

func (o LineOrigin) String() string {
	if o.Commit == nil {
		return "new"
	}
	return fmt.Sprintf("%v:%v", o.Commit.ID.Short(), o.OldLine)
}

// LineAttribution is the origin of one line of a file's new content.
type LineAttribution struct {
	NewLine int
	Origin  LineOrigin

	// Changed is false when the line is byte identical to the old line it
	// matches, so no commit has to carry it.
	Changed bool
}

// LineSlot is one position of a file while it goes from its old to its new
// content. Old or New is -1 when the slot has no line on that side.
type LineSlot struct {
	Old int
	New int
}

// FileAttribution is the attribution of every new line of a single file.
type FileAttribution struct {
	Change *FileChange
	Lines  []LineAttribution
	Slots  []LineSlot

	// Removals maps removed old line indexes to the origin of the group that
	// will remove them.
	Removals map[int]LineOrigin

	HistoryUnavailable bool
}

func (a *FileAttribution) Path() string {
	return a.Change.Path
}

func (a *FileAttribution) CountChanged() int {
	result := 0
	for _, l := range a.Lines {
		if l.Changed {
			result++
		}
	}
	return result
}
