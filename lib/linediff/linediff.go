package linediff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pescuma/git-reblame/lib/model"
)

type Diff struct {
	Type  Operation
	Lines int
}

type Operation int8

const (
	DiffDelete Operation = Operation(diffmatchpatch.DiffDelete)
	DiffInsert Operation = Operation(diffmatchpatch.DiffInsert)
	DiffEqual  Operation = Operation(diffmatchpatch.DiffEqual)
)

// Do computes a minimal line diff between src and dst, comparing lines by
// their Normalize form.
func Do(src, dst model.Lines) []Diff {
	dmp := diffmatchpatch.New()
	// No deadline: the result is always the minimal one, and always the same.
	dmp.DiffTimeout = 0
	wSrc, wDst := linesToIndexes(src, dst)
	dmpd := dmp.DiffMainRunes(wSrc, wDst, false)
	diffs := lineIndexesToDiff(dmpd)
	return diffs
}

func lineIndexesToDiff(diffs []diffmatchpatch.Diff) []Diff {
	hydrated := make([]Diff, 0, len(diffs))
	for _, aDiff := range diffs {
		hydrated = append(hydrated, Diff{
			Type:  Operation(aDiff.Type),
			Lines: utf8.RuneCountInString(aDiff.Text),
		})
	}
	return hydrated
}

func linesToIndexes(lines1, lines2 model.Lines) ([]rune, []rune) {
	lineToIndex := make(map[string]int)
	indexes1 := linesToIndex(lines1, lineToIndex)
	indexes2 := linesToIndex(lines2, lineToIndex)
	return indexes1, indexes2
}

func linesToIndex(lines model.Lines, lineToIndex map[string]int) []rune {
	result := make([]rune, len(lines))
	for i, line := range lines {
		key := Normalize(line)

		lineValue, ok := lineToIndex[key]
		if !ok {
			lineValue = len(lineToIndex)
			lineToIndex[key] = lineValue
		}

		result[i] = indexToRune(lineValue)
	}
	return result
}

// indexToRune skips the surrogate range, which does not survive the
// conversion to string that diffmatchpatch does internally.
func indexToRune(i int) rune {
	if i >= 0xD800 {
		i += 0x800
	}
	return rune(i)
}
