package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/go-enry/go-enry/v2"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/pescuma/git-reblame/lib/attribution"
	"github.com/pescuma/git-reblame/lib/common"
	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/grouping"
	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/synthesizer"
	"github.com/pescuma/git-reblame/lib/utils"
)

var ErrDirtyIndex = errors.New("staging area must be empty")

type Options struct {
	MinSimilarity float64

	// Workers is the number of files analysed in parallel. Zero picks a
	// default from the number of CPUs.
	Workers int

	IncludeUntracked bool
	Paths            PathMatcher

	NewMessage string
	Progress   bool

	Now func() time.Time
}

// Plan is everything that would be committed, without writing anything.
type Plan struct {
	Head    model.CommitID
	Files   []*model.FileAttribution
	Groups  []*model.OriginGroup
	Skipped []SkippedPath
}

type SkippedPath struct {
	Path   string
	Reason string
}

type Engine struct {
	console consoles.Console
	repo    Repository
	options Options
}

func New(console consoles.Console, repo Repository, options Options) *Engine {
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Engine{
		console: console,
		repo:    repo,
		options: options,
	}
}

// Synthesize splits the working tree modifications into commits that keep the
// authorship of every reformatted line, and moves the current branch to the
// last one. It returns the new commits, oldest first.
func Synthesize(console consoles.Console, repo Repository, options Options) ([]model.CommitID, error) {
	commits, err := New(console, repo, options).Synthesize()
	if err != nil {
		return nil, err
	}

	result := make([]model.CommitID, len(commits))
	for i, c := range commits {
		result[i] = c.ID
	}
	return result, nil
}

func MakePlan(console consoles.Console, repo Repository, options Options) (*Plan, error) {
	return New(console, repo, options).Plan()
}

func (e *Engine) Synthesize() ([]*model.SynthesizedCommit, error) {
	plan, err := e.Plan()
	if err != nil {
		return nil, err
	}

	if len(plan.Groups) == 0 {
		e.console.Printf("Nothing to commit\n")
		return nil, nil
	}

	e.console.Printf("Creating %v...\n", common.Count(len(plan.Groups), "commit"))

	synth := synthesizer.New(e.console, e.repo.Objects, e.repo.Identity, synthesizer.Options{
		NewMessage: e.options.NewMessage,
		Progress:   e.options.Progress,
		Now:        e.options.Now,
	})

	commits, err := synth.Synthesize(plan.Head, plan.Files, plan.Groups)
	if err != nil {
		return nil, err
	}

	last := commits[len(commits)-1].ID

	err = e.repo.WorkingTree.ClearChanges(last)
	if err != nil {
		return nil, errors.Wrapf(err, "commits were created and the branch now points to %v, but the index could not be updated", last.Short())
	}

	return commits, nil
}

func (e *Engine) Plan() (*Plan, error) {
	staged, err := e.repo.WorkingTree.StagedPaths()
	if err != nil {
		return nil, err
	}
	if len(staged) > 0 {
		e.console.Verbosef("Staged: %v\n", strings.Join(staged, ", "))
		return nil, ErrDirtyIndex
	}

	head, err := e.repo.WorkingTree.Head()
	if err != nil {
		return nil, err
	}

	e.console.Printf("Reading changes...\n")

	paths, skipped, err := e.listPaths()
	if err != nil {
		return nil, err
	}

	files, moreSkipped, err := e.analyse(head, paths)
	if err != nil {
		return nil, err
	}
	skipped = append(skipped, moreSkipped...)
	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Path < skipped[j].Path
	})

	sequence, err := e.repo.History.Sequence(head)
	if history.IsUnavailable(err) {
		e.console.Printf("History not available, commits will be ordered by date: %v\n", err)
		sequence = nil
	} else if err != nil {
		return nil, err
	}

	author, err := e.repo.Identity.CurrentAuthor()
	if err != nil {
		return nil, errors.Wrap(err, "error reading current user")
	}
	author.When = e.options.Now()

	groups := grouping.Aggregate(files, sequence, author)

	lines, removals, changedPaths := grouping.CountLines(groups)
	e.console.Printf("Found %v and %v in %v, from %v\n",
		common.Count(lines, "changed line"), common.Count(removals, "removed line"),
		common.Count(changedPaths, "file"), common.Count(len(groups), "origin commit"))

	return &Plan{
		Head:    head,
		Files:   files,
		Groups:  groups,
		Skipped: skipped,
	}, nil
}

func (e *Engine) listPaths() ([]string, []SkippedPath, error) {
	changed, err := e.repo.WorkingTree.ChangedPaths()
	if err != nil {
		return nil, nil, err
	}

	var paths []string
	var skipped []SkippedPath
	seen := set.New[string](len(changed))

	for _, c := range changed {
		if !seen.Insert(c.Path) {
			continue
		}

		switch {
		case e.options.Paths != nil && !e.options.Paths.Matches(c.Path):
			e.console.Verbosef("Ignoring %v: filtered out\n", c.Path)

		case c.Status == model.PathDeleted:
			skipped = append(skipped, SkippedPath{Path: c.Path, Reason: "deleted"})

		case c.Status == model.PathUntracked && !e.options.IncludeUntracked:
			skipped = append(skipped, SkippedPath{Path: c.Path, Reason: "untracked"})

		default:
			paths = append(paths, c.Path)
		}
	}

	return paths, skipped, nil
}

type analysis struct {
	file    *model.FileAttribution
	skipped *SkippedPath
}

func (e *Engine) analyse(head model.CommitID, paths []string) ([]*model.FileAttribution, []SkippedPath, error) {
	mapper := attribution.NewMapper(e.console, e.repo.History, head, attribution.Options{
		MinSimilarity: e.options.MinSimilarity,
	})

	var bar *progressbar.ProgressBar
	if e.options.Progress {
		bar = utils.NewProgressBar(len(paths))
	} else {
		bar = utils.NewSilentProgressBar(len(paths))
	}
	defer bar.Finish()

	group := utils.ParallelFor(paths, func(path string) (*analysis, error) {
		return e.analyseFile(mapper, path)
	}, utils.ParallelOptions{Routines: e.options.Workers})

	var files []*model.FileAttribution
	var skipped []SkippedPath
	for a := range group.Output {
		if a.skipped != nil {
			e.console.Verbosef("Skipping %v: %v\n", a.skipped.Path, a.skipped.Reason)
			skipped = append(skipped, *a.skipped)
		} else {
			files = append(files, a.file)
		}

		_ = bar.Add(1)
	}

	err := group.Error()
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path() < files[j].Path()
	})

	return files, skipped, nil
}

func (e *Engine) analyseFile(mapper *attribution.Mapper, path string) (*analysis, error) {
	skip := func(reason string) (*analysis, error) {
		return &analysis{skipped: &SkippedPath{Path: path, Reason: reason}}, nil
	}

	mode, err := e.repo.WorkingTree.FileMode(path)
	if err != nil {
		return nil, err
	}
	switch mode {
	case filemode.Regular, filemode.Executable:
	case filemode.Deprecated:
		mode = filemode.Regular
	default:
		return skip("not a regular file")
	}

	newContent, err := e.repo.WorkingTree.NewContent(path)
	if err != nil {
		return nil, err
	}

	created := false
	oldContent, err := e.repo.WorkingTree.OldContent(path)
	if errors.Is(err, model.ErrNotFound) {
		created = true
		oldContent = nil
	} else if err != nil {
		return nil, err
	}

	if enry.IsBinary(newContent) || enry.IsBinary(oldContent) {
		return skip("binary")
	}

	change := model.NewFileChange(path, model.SplitLines(string(oldContent)), model.SplitLines(string(newContent)))
	change.Mode = mode
	change.Created = created

	if change.Unchanged() {
		return skip("content unchanged")
	}

	file, err := mapper.Attribute(change)
	if err != nil {
		return nil, err
	}

	return &analysis{file: file}, nil
}
