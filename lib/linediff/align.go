package linediff

import (
	"fmt"

	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/utils"
)

type OpType int8

const (
	Match OpType = iota
	Replace
	Insert
	Delete
)

func (t OpType) String() string {
	switch t {
	case Match:
		return "match"
	case Replace:
		return "replace"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("OpType(%d)", int(t))
	}
}

// Op is one step of an alignment. Old or New is -1 when the operation has no
// line on that side.
type Op struct {
	Type OpType
	Old  int
	New  int
}

func (o Op) String() string {
	return fmt.Sprintf("%v(%v,%v)", o.Type, o.Old, o.New)
}

type Alignment []Op

// Align matches the lines of old against the lines of new with a minimal
// number of edits. Lines that compare equal ignoring whitespace are a Match;
// a run of deleted lines followed by a run of inserted lines is paired
// position by position into Replace operations.
func Align(old, new model.Lines) Alignment {
	result := make(Alignment, 0, utils.Max(len(old), len(new)))

	if len(old) == 0 || len(new) == 0 {
		for i := range old {
			result = append(result, Op{Type: Delete, Old: i, New: -1})
		}
		for j := range new {
			result = append(result, Op{Type: Insert, Old: -1, New: j})
		}
		return result
	}

	diffs := Do(old, new)

	i, j := 0, 0
	for k := 0; k < len(diffs); k++ {
		d := diffs[k]

		switch d.Type {
		case DiffEqual:
			for n := 0; n < d.Lines; n++ {
				result = append(result, Op{Type: Match, Old: i, New: j})
				i++
				j++
			}

		case DiffDelete, DiffInsert:
			deleted, inserted := 0, 0
			for ; k < len(diffs) && diffs[k].Type != DiffEqual; k++ {
				if diffs[k].Type == DiffDelete {
					deleted += diffs[k].Lines
				} else {
					inserted += diffs[k].Lines
				}
			}
			k--

			paired := utils.Min(deleted, inserted)
			for n := 0; n < paired; n++ {
				result = append(result, Op{Type: Replace, Old: i, New: j})
				i++
				j++
			}
			for n := paired; n < deleted; n++ {
				result = append(result, Op{Type: Delete, Old: i, New: -1})
				i++
			}
			for n := paired; n < inserted; n++ {
				result = append(result, Op{Type: Insert, Old: -1, New: j})
				j++
			}
		}
	}

	return result
}

func (a Alignment) Count(t OpType) int {
	result := 0
	for _, op := range a {
		if op.Type == t {
			result++
		}
	}
	return result
}
