package linediff

import (
	"testing"

	"github.com/bloomberg/go-testgroup"

	"github.com/pescuma/git-reblame/lib/model"
)

func TestAlign(t *testing.T) {
	testgroup.RunInParallel(t, &AlignTests{})
}

type AlignTests struct {
}

func (g *AlignTests) Identical(t *testgroup.T) {
	lines := model.Lines{"a\n", "b\n", "c\n"}

	result := Align(lines, lines)

	t.Equal(Alignment{
		{Type: Match, Old: 0, New: 0},
		{Type: Match, Old: 1, New: 1},
		{Type: Match, Old: 2, New: 2},
	}, result)
}

func (g *AlignTests) WhitespaceOnlyChangesMatch(t *testgroup.T) {
	old := model.Lines{"if x {\n", "\treturn  1\n", "}\n"}
	new := model.Lines{"if x {\n", "    return 1\n", "}  \n"}

	result := Align(old, new)

	t.Equal(3, result.Count(Match))
	t.Equal(Op{Type: Match, Old: 1, New: 1}, result[1])
}

func (g *AlignTests) EmptyOld(t *testgroup.T) {
	result := Align(model.Lines{}, model.Lines{"a\n", "b\n"})

	t.Equal(Alignment{
		{Type: Insert, Old: -1, New: 0},
		{Type: Insert, Old: -1, New: 1},
	}, result)
}

func (g *AlignTests) EmptyNew(t *testgroup.T) {
	result := Align(model.Lines{"a\n", "b\n"}, nil)

	t.Equal(Alignment{
		{Type: Delete, Old: 0, New: -1},
		{Type: Delete, Old: 1, New: -1},
	}, result)
}

func (g *AlignTests) ReplaceInTheMiddle(t *testgroup.T) {
	result := Align(model.Lines{"a\n", "b\n", "c\n"}, model.Lines{"a\n", "x\n", "c\n"})

	t.Equal(Alignment{
		{Type: Match, Old: 0, New: 0},
		{Type: Replace, Old: 1, New: 1},
		{Type: Match, Old: 2, New: 2},
	}, result)
}

func (g *AlignTests) MoreDeletesThanInserts(t *testgroup.T) {
	result := Align(model.Lines{"a\n", "b\n", "c\n", "d\n"}, model.Lines{"a\n", "x\n", "d\n"})

	t.Equal(Alignment{
		{Type: Match, Old: 0, New: 0},
		{Type: Replace, Old: 1, New: 1},
		{Type: Delete, Old: 2, New: -1},
		{Type: Match, Old: 3, New: 2},
	}, result)
}

func (g *AlignTests) SplitLine(t *testgroup.T) {
	result := Align(model.Lines{"call(a, b)\n"}, model.Lines{"call(a,\n", "     b)\n"})

	t.Equal(Alignment{
		{Type: Replace, Old: 0, New: 0},
		{Type: Insert, Old: -1, New: 1},
	}, result)
}

func (g *AlignTests) InsertInTheMiddle(t *testgroup.T) {
	result := Align(model.Lines{"a\n", "b\n"}, model.Lines{"a\n", "x\n", "b\n"})

	t.Equal(Alignment{
		{Type: Match, Old: 0, New: 0},
		{Type: Insert, Old: -1, New: 1},
		{Type: Match, Old: 1, New: 2},
	}, result)
}

func (g *AlignTests) CoversEveryLineInOrder(t *testgroup.T) {
	old := model.Lines{"package a\n", "\n", "func f() {\n", "x:=1\n", "return x\n", "}\n", "// end\n"}
	new := model.Lines{"package a\n", "\n", "func f() int {\n", "\tx := 1\n", "\n", "\treturn x\n", "}\n"}

	result := Align(old, new)

	nextOld, nextNew := 0, 0
	for _, op := range result {
		if op.Old >= 0 {
			t.Equal(nextOld, op.Old)
			nextOld++
		}
		if op.New >= 0 {
			t.Equal(nextNew, op.New)
			nextNew++
		}
	}
	t.Equal(len(old), nextOld)
	t.Equal(len(new), nextNew)

	t.Equal(result, Align(old, new))
}

func TestIndexToRuneSkipsSurrogates(t *testing.T) {
	if indexToRune(0xD7FF) != 0xD7FF {
		t.Fatal("wrong rune below surrogates")
	}
	if indexToRune(0xD800) != 0xE000 {
		t.Fatal("wrong rune after surrogates")
	}
}
