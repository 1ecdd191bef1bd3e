package attribution

import (
	"github.com/pescuma/git-reblame/lib/linediff"
	"github.com/pescuma/git-reblame/lib/model"
)

type Options struct {
	// MinSimilarity is the minimum similarity between an old line and the new
	// line that replaces it for the new line to keep the old line's origin.
	// Zero means replaced lines always keep it.
	MinSimilarity float64
}

// Map computes the origin of every new line of change, given the alignment
// between its old and new content and the blame of its old content.
func Map(change *model.FileChange, alignment linediff.Alignment, blame []*model.Commit, opts Options) *model.FileAttribution {
	result := &model.FileAttribution{
		Change:   change,
		Lines:    make([]model.LineAttribution, len(change.New)),
		Slots:    make([]model.LineSlot, 0, len(alignment)),
		Removals: map[int]model.LineOrigin{},
	}

	oldOrigin := func(i int) model.LineOrigin {
		if i < len(blame) && blame[i] != nil {
			return model.InheritedOrigin(blame[i], i)
		}
		return model.NewOrigin
	}

	for _, op := range alignment {
		result.Slots = append(result.Slots, model.LineSlot{Old: op.Old, New: op.New})

		switch op.Type {
		case linediff.Match:
			result.Lines[op.New] = model.LineAttribution{
				NewLine: op.New,
				Origin:  oldOrigin(op.Old),
				Changed: change.Old[op.Old] != change.New[op.New],
			}

		case linediff.Replace:
			origin := oldOrigin(op.Old)
			if opts.MinSimilarity > 0 && linediff.Similarity(change.Old[op.Old], change.New[op.New]) < opts.MinSimilarity {
				origin = model.NewOrigin
			}

			result.Lines[op.New] = model.LineAttribution{
				NewLine: op.New,
				Origin:  origin,
				Changed: true,
			}

		case linediff.Insert:
			result.Lines[op.New] = model.LineAttribution{
				NewLine: op.New,
				Origin:  model.NewOrigin,
				Changed: true,
			}
		}
	}

	assignRemovals(result, alignment)

	return result
}

// assignRemovals gives every deleted old line to the origin of the closest
// changed new line of the same hunk, looking backwards first. A hunk is a run
// of alignment operations that are not unchanged matches.
func assignRemovals(result *model.FileAttribution, alignment linediff.Alignment) {
	inHunk := func(op linediff.Op) bool {
		return op.Type != linediff.Match || result.Lines[op.New].Changed
	}

	for i, op := range alignment {
		if op.Type != linediff.Delete {
			continue
		}

		origin := model.NewOrigin
		found := false

		for j := i - 1; j >= 0 && inHunk(alignment[j]); j-- {
			if alignment[j].New >= 0 {
				origin = result.Lines[alignment[j].New].Origin
				found = true
				break
			}
		}

		for j := i + 1; !found && j < len(alignment) && inHunk(alignment[j]); j++ {
			if alignment[j].New >= 0 {
				origin = result.Lines[alignment[j].New].Origin
				found = true
			}
		}

		result.Removals[op.Old] = origin
	}
}
