package synthesizer

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/utils"
)

const trailer = "automatic commit by git-reblame, original commits:"

type Options struct {
	// NewMessage is the message of the commit with new content.
	NewMessage string

	Progress bool

	Now func() time.Time
}

type Synthesizer struct {
	console  consoles.Console
	store    ObjectStore
	identity Identity
	options  Options
}

func New(console consoles.Console, store ObjectStore, identity Identity, options Options) *Synthesizer {
	if options.NewMessage == "" {
		options.NewMessage = "Reformat code"
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Synthesizer{
		console:  console,
		store:    store,
		identity: identity,
		options:  options,
	}
}

// Synthesize creates one commit per group, in order, on top of head, and then
// moves the branch to the last one. Nothing is written to the branch if any
// step fails.
func (s *Synthesizer) Synthesize(head model.CommitID, files []*model.FileAttribution, groups []*model.OriginGroup) ([]*model.SynthesizedCommit, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	committer, err := s.identity.CurrentAuthor()
	if err != nil {
		return nil, errors.Wrap(err, "error reading current user")
	}
	committer.When = s.options.Now()

	states := make(map[string]*fileState, len(files))
	for _, f := range files {
		states[f.Path()] = newFileState(f)
	}

	tree, err := s.store.CommitTree(head)
	if err != nil {
		return nil, &ObjectWriteError{Synthesized: 0, Err: err}
	}

	var bar *progressbar.ProgressBar
	if s.options.Progress {
		bar = utils.NewProgressBar(len(groups))
	} else {
		bar = utils.NewSilentProgressBar(len(groups))
	}

	result := make([]*model.SynthesizedCommit, 0, len(groups))
	parent := head

	for i, group := range groups {
		s.console.Verbosef("Making commit %v/%v: %v (%v lines)\n", i+1, len(groups), describe(group), group.Size())

		s.console.PushPrefix("  ")
		patches, err := s.applyGroup(states, group)
		s.console.PopPrefix()
		if err != nil {
			return nil, err
		}

		tree, err = s.store.CreateTree(tree, patches)
		if err != nil {
			return nil, &ObjectWriteError{Synthesized: len(result), Err: err}
		}

		author := group.Author
		if group.IsNew() {
			author.When = committer.When
		}

		message := s.message(group)

		id, err := s.store.CreateCommit(parent, tree, author, committer, message)
		if err != nil {
			return nil, &ObjectWriteError{Synthesized: len(result), Err: err}
		}

		result = append(result, &model.SynthesizedCommit{
			ID:        id,
			Parent:    parent,
			Tree:      tree,
			Author:    author,
			Committer: committer,
			Message:   message,
			Group:     group,
		})
		parent = id

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	err = s.store.UpdateRef(head, parent)
	if err != nil {
		return nil, errors.Wrapf(err, "error moving branch from %v to %v", head.Short(), parent.Short())
	}

	return result, nil
}

func (s *Synthesizer) applyGroup(states map[string]*fileState, group *model.OriginGroup) ([]FilePatch, error) {
	for _, line := range group.Lines {
		state, ok := states[line.Path]
		if !ok {
			return nil, errors.Errorf("group has a line of unknown file %v", line.Path)
		}
		state.apply(line)
	}
	for _, removal := range group.Removals {
		state, ok := states[removal.Path]
		if !ok {
			return nil, errors.Errorf("group removes a line of unknown file %v", removal.Path)
		}
		state.remove(removal)
	}

	paths := group.Paths()
	patches := make([]FilePatch, 0, len(paths))
	for _, path := range paths {
		state := states[path]
		if state.exists() {
			patches = append(patches, state.patch())
			s.console.Verbosef("%v\n", path)
		} else {
			s.console.Verbosef("%v: not created yet\n", path)
		}
	}

	return patches, nil
}

func (s *Synthesizer) message(group *model.OriginGroup) string {
	if group.IsNew() {
		return strings.TrimRight(s.options.NewMessage, "\n") + "\n"
	}

	sb := strings.Builder{}
	sb.WriteString(strings.TrimRight(group.Origin.Message, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(trailer)
	sb.WriteString("\n")
	for _, c := range group.Commits {
		sb.WriteString("  ")
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func describe(group *model.OriginGroup) string {
	if group.IsNew() {
		return "new content"
	}
	return group.Origin.ID.Short() + " " + group.Origin.Subject()
}
