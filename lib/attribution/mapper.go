package attribution

import (
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/linediff"
	"github.com/pescuma/git-reblame/lib/model"
)

// Mapper aligns and blames files against a fixed head commit.
type Mapper struct {
	console consoles.Console
	history history.Reader
	head    model.CommitID
	options Options
}

func NewMapper(console consoles.Console, history history.Reader, head model.CommitID, options Options) *Mapper {
	return &Mapper{
		console: console,
		history: history,
		head:    head,
		options: options,
	}
}

// Attribute is safe to call concurrently for different files.
func (m *Mapper) Attribute(change *model.FileChange) (*model.FileAttribution, error) {
	var blame []*model.Commit
	unavailable := false

	if !change.Created && len(change.Old) > 0 {
		var err error
		blame, err = m.history.Blame(change.Path, m.head)

		switch {
		case history.IsUnavailable(err):
			m.console.Printf("No history for %v, its lines will be attributed as new: %v\n", change.Path, err)
			blame = nil
			unavailable = true

		case err != nil:
			return nil, errors.Wrapf(err, "error blaming %v", change.Path)

		case len(blame) != len(change.Old):
			m.console.Verbosef("Blame of %v has %v lines but the committed file has %v\n", change.Path, len(blame), len(change.Old))
		}
	}

	alignment := linediff.Align(change.Old, change.New)
	m.console.Verbosef("%v: %v matched, %v replaced, %v inserted, %v deleted\n", change.Path,
		alignment.Count(linediff.Match), alignment.Count(linediff.Replace),
		alignment.Count(linediff.Insert), alignment.Count(linediff.Delete))

	result := Map(change, alignment, blame, m.options)
	result.HistoryUnavailable = unavailable

	return result, nil
}
