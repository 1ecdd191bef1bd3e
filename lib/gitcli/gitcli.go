package gitcli

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/abiosoft/lineprefix"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/caches"
	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/model"
)

type Options struct {
	// Verbose forwards the stderr of git to Stderr.
	Verbose bool
	Stderr  io.Writer
}

// History reads blame and ancestry by running the git executable. Unlike
// go-git, git blame follows moved and copied lines.
type History struct {
	console consoles.Console
	dir     string
	git     string
	options Options

	commits *caches.Cache[model.CommitID, *model.Commit]
	shallow *caches.Lazy[map[model.CommitID]bool]
}

func New(console consoles.Console, dir string, options Options) (*History, error) {
	git, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.Wrap(err, "git executable not found")
	}

	if options.Stderr == nil {
		options.Stderr = os.Stderr
	}

	result := &History{
		console: console,
		dir:     dir,
		git:     git,
		options: options,
		commits: caches.NewCache[model.CommitID, *model.Commit](),
	}
	result.shallow = caches.NewLazy(result.loadShallow)

	return result, nil
}

type runError struct {
	args   []string
	stderr string
	err    error
}

func (e *runError) Error() string {
	return "git " + strings.Join(e.args, " ") + ": " + e.err.Error() + ": " + strings.TrimSpace(e.stderr)
}

func (e *runError) Unwrap() error {
	return e.err
}

func (h *History) run(args ...string) ([]byte, error) {
	cmd := exec.Command(h.git, args...)
	cmd.Dir = h.dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	h.console.Verbosef("Executing 'git %v'\n", strings.Join(args, "' '"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if h.options.Verbose {
		cmd.Stderr = io.MultiWriter(&stderr, lineprefix.New(lineprefix.Writer(h.options.Stderr), lineprefix.Prefix("git: ")))
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err != nil {
		return nil, &runError{args: args, stderr: stderr.String(), err: err}
	}

	return stdout.Bytes(), nil
}
