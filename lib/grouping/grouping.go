package grouping

import (
	"sort"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"

	"github.com/pescuma/git-reblame/lib/model"
)

// Aggregate groups the changed lines and removals of all files by origin
// commit. newAuthor is the author of the group of new lines.
//
// Groups are ordered by the position of their origin commit in sequence,
// oldest first. Commits missing from sequence come next, ordered by author
// date and id. The group of new lines is always the last one.
func Aggregate(files []*model.FileAttribution, sequence map[model.CommitID]int, newAuthor model.Signature) []*model.OriginGroup {
	files = lo.Filter(files, func(f *model.FileAttribution, _ int) bool { return f != nil })
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Path() < files[j].Path()
	})

	groups := map[model.CommitID]*model.OriginGroup{}
	get := func(origin model.LineOrigin) *model.OriginGroup {
		key := origin.Key()

		result, ok := groups[key]
		if !ok {
			result = &model.OriginGroup{
				Origin: origin.Commit,
			}
			if origin.IsNew() {
				result.Author = newAuthor
			} else {
				result.Author = origin.Commit.Author
			}
			groups[key] = result
		}

		return result
	}

	for _, file := range files {
		for _, line := range file.Lines {
			if !line.Changed {
				continue
			}

			group := get(line.Origin)
			group.Lines = append(group.Lines, model.GroupLine{
				Path:    file.Path(),
				Line:    line.NewLine,
				Content: file.Change.New[line.NewLine],
			})
		}

		oldLines := lo.Keys(file.Removals)
		sort.Ints(oldLines)

		for _, oldLine := range oldLines {
			group := get(file.Removals[oldLine])
			group.Removals = append(group.Removals, model.GroupRemoval{
				Path:    file.Path(),
				OldLine: oldLine,
			})
		}
	}

	result := lo.Values(groups)

	for _, group := range result {
		sortMembers(group)

		if !group.IsNew() {
			group.Commits = []model.CommitID{group.Origin.ID}
		}
	}

	sortGroups(result, sequence)

	return result
}

func sortMembers(group *model.OriginGroup) {
	sort.Slice(group.Lines, func(i, j int) bool {
		a, b := group.Lines[i], group.Lines[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Line < b.Line
	})
	sort.Slice(group.Removals, func(i, j int) bool {
		a, b := group.Removals[i], group.Removals[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.OldLine < b.OldLine
	})
}

func sortGroups(groups []*model.OriginGroup, sequence map[model.CommitID]int) {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]

		if a.IsNew() != b.IsNew() {
			return b.IsNew()
		}
		if a.IsNew() {
			return false
		}

		pa, oka := sequence[a.Origin.ID]
		pb, okb := sequence[b.Origin.ID]
		if oka != okb {
			return oka
		}
		if oka && pa != pb {
			return pa < pb
		}

		ta, tb := a.Origin.Author.When, b.Origin.Author.When
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}

		return a.Origin.ID < b.Origin.ID
	})
}

// CountLines returns the number of member lines and removals of all groups,
// and the number of distinct paths they touch.
func CountLines(groups []*model.OriginGroup) (lines int, removals int, paths int) {
	ps := set.New[string](len(groups))
	for _, g := range groups {
		lines += len(g.Lines)
		removals += len(g.Removals)
		ps.InsertSlice(g.Paths())
	}
	return lines, removals, ps.Size()
}
