package gitcli

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
)

func (h *History) Sequence(head model.CommitID) (map[model.CommitID]int, error) {
	out, err := h.run("rev-list", "--topo-order", "--reverse", string(head))
	if err != nil {
		var re *runError
		if errors.As(err, &re) && isMissingHistory(re.stderr) {
			return nil, history.Unavailable("history", head, err)
		}
		return nil, err
	}

	result := map[model.CommitID]int{}
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result[model.CommitID(line)] = len(result)
	}

	return result, nil
}
