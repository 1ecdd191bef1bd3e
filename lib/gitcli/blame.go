package gitcli

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
)

func (h *History) Blame(path string, commit model.CommitID) ([]*model.Commit, error) {
	out, err := h.run("blame", "--porcelain", "-M", "-C", string(commit), "--", path)
	if err != nil {
		var re *runError
		if errors.As(err, &re) && isMissingHistory(re.stderr) {
			return nil, history.Unavailable(path, commit, err)
		}
		return nil, err
	}

	ids := parsePorcelainBlame(out)

	// Lines older than a shallow boundary are blamed on the boundary commit.
	shallow, err := h.shallow.Get()
	if err != nil {
		return nil, err
	}
	for i, id := range ids {
		if shallow[id] {
			h.console.Verbosef("Line %v of %v is blamed on shallow boundary %v, its author is unknown\n", i+1, path, id.Short())
			ids[i] = ""
		}
	}

	err = h.loadCommits(lo.Uniq(lo.Filter(ids, func(id model.CommitID, _ int) bool { return id != "" })))
	if err != nil {
		return nil, err
	}

	result := make([]*model.Commit, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}

		result[i], err = h.commits.Get(id, h.loadCommit)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func isMissingHistory(stderr string) bool {
	stderr = strings.ToLower(stderr)
	return strings.Contains(stderr, "no such path") ||
		strings.Contains(stderr, "bad object") ||
		strings.Contains(stderr, "bad revision") ||
		strings.Contains(stderr, "unknown revision")
}

// parsePorcelainBlame returns the commit of every final line, indexed from 0.
//
// Porcelain format:
//
//	<40-byte SHA> <orig-line> <final-line> [<num-lines>]
//	header lines, only the first time a commit appears
//	\t<line content>
func parsePorcelainBlame(out []byte) []model.CommitID {
	var result []model.CommitID

	for _, line := range strings.Split(string(out), "\n") {
		if line == "" || strings.HasPrefix(line, "\t") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 || len(fields[0]) != 40 {
			continue
		}

		final, err := strconv.Atoi(fields[2])
		if err != nil || final <= 0 {
			continue
		}

		for len(result) < final {
			result = append(result, "")
		}
		result[final-1] = model.CommitID(fields[0])
	}

	return result
}

const (
	fieldSeparator  = "\x00"
	recordSeparator = "\x1e"
	commitFormat    = "%H%x00%an%x00%ae%x00%aI%x00%cn%x00%ce%x00%cI%x00%B%x1e"
)

// loadCommits reads all missing commits with a single git call.
func (h *History) loadCommits(ids []model.CommitID) error {
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if !h.commits.Has(id) {
			missing = append(missing, string(id))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	args := append([]string{"show", "--no-patch", "--format=" + commitFormat}, missing...)
	out, err := h.run(args...)
	if err != nil {
		return err
	}

	commits, err := parseCommits(out)
	if err != nil {
		return err
	}

	for _, c := range commits {
		h.commits.Put(c.ID, c)
	}

	return nil
}

func (h *History) loadCommit(id model.CommitID) (*model.Commit, error) {
	out, err := h.run("show", "--no-patch", "--format="+commitFormat, string(id))
	if err != nil {
		return nil, err
	}

	commits, err := parseCommits(out)
	if err != nil {
		return nil, err
	}
	if len(commits) != 1 {
		return nil, errors.Errorf("expected one commit for %v, got %v", id, len(commits))
	}

	return commits[0], nil
}

func parseCommits(out []byte) ([]*model.Commit, error) {
	var result []*model.Commit

	for _, record := range strings.Split(string(out), recordSeparator) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSeparator, 8)
		if len(fields) != 8 {
			return nil, errors.Errorf("invalid commit record: %q", record)
		}

		authorWhen, err := time.Parse(time.RFC3339, fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid author date of %v", fields[0])
		}
		committerWhen, err := time.Parse(time.RFC3339, fields[6])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid committer date of %v", fields[0])
		}

		result = append(result, &model.Commit{
			ID:        model.CommitID(fields[0]),
			Author:    model.Signature{Name: fields[1], Email: fields[2], When: authorWhen},
			Committer: model.Signature{Name: fields[4], Email: fields[5], When: committerWhen},
			Message:   fields[7],
		})
	}

	return result, nil
}
