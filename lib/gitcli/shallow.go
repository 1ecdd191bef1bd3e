package gitcli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
)

// loadShallow reads the commits at the boundary of a shallow clone. Their
// parents are missing, so git blames them for every older line.
func (h *History) loadShallow() (map[model.CommitID]bool, error) {
	out, err := h.run("rev-parse", "--git-path", "shallow")
	if err != nil {
		return nil, err
	}

	file := strings.TrimSpace(string(out))
	if !filepath.IsAbs(file) {
		file = filepath.Join(h.dir, file)
	}

	content, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) {
		return map[model.CommitID]bool{}, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error reading shallow commits")
	}

	return parseShallow(content), nil
}

func parseShallow(content []byte) map[model.CommitID]bool {
	result := map[model.CommitID]bool{}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result[model.CommitID(line)] = true
		}
	}
	return result
}
