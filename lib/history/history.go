package history

import (
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
)

// ErrHistoryUnavailable is returned when a path has no history at the given
// commit: it did not exist there, the clone is shallow or objects are missing.
var ErrHistoryUnavailable = errors.New("history unavailable")

type Reader interface {
	// Blame returns, for every line of path at commit, the commit that last
	// introduced it. Entries may be nil for lines that could not be resolved.
	Blame(path string, commit model.CommitID) ([]*model.Commit, error)

	// Sequence returns the topological position of every commit reachable from
	// head. Older commits have smaller positions.
	Sequence(head model.CommitID) (map[model.CommitID]int, error)
}

func Unavailable(path string, commit model.CommitID, cause error) error {
	if cause == nil {
		return errors.Wrapf(ErrHistoryUnavailable, "%v at %v", path, commit.Short())
	}
	return errors.Wrapf(ErrHistoryUnavailable, "%v at %v: %v", path, commit.Short(), cause)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrHistoryUnavailable)
}
