package linediff

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pescuma/git-reblame/lib/utils"
)

// Normalize is the comparison key used to align lines: surrounding whitespace
// is dropped and inner whitespace runs become a single space. Formatters
// re-indent and re-wrap a lot, so lines that only differ in whitespace are
// considered the same line.
func Normalize(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// Similarity returns how close two lines are, from 0 (nothing in common) to 1
// (equal ignoring whitespace), based on the character level edit distance.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return 1
	}

	longest := utils.Max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	distance := dmp.DiffLevenshtein(dmp.DiffMain(na, nb, false))

	return utils.Max(0, 1-float64(distance)/float64(longest))
}
