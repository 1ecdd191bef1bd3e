package synthesizer

import (
	"strings"

	"github.com/pescuma/git-reblame/lib/model"
)

// fileState tracks how much of a file's change has already been committed.
type fileState struct {
	attribution *model.FileAttribution
	applied     map[int]string
	removed     map[int]bool
	touched     bool
}

func newFileState(attribution *model.FileAttribution) *fileState {
	return &fileState{
		attribution: attribution,
		applied:     map[int]string{},
		removed:     map[int]bool{},
	}
}

func (f *fileState) apply(line model.GroupLine) {
	f.applied[line.Line] = line.Content
	f.touched = true
}

func (f *fileState) remove(removal model.GroupRemoval) {
	f.removed[removal.OldLine] = true
	f.touched = true
}

// exists is false for a created file until one of its lines is committed.
func (f *fileState) exists() bool {
	return !f.attribution.Change.Created || f.touched
}

func (f *fileState) render() model.Lines {
	change := f.attribution.Change

	result := make(model.Lines, 0, len(f.attribution.Slots))
	for _, slot := range f.attribution.Slots {
		switch {
		case slot.New >= 0 && slot.Old >= 0:
			if content, ok := f.applied[slot.New]; ok {
				result = append(result, content)
			} else {
				result = append(result, change.Old[slot.Old])
			}

		case slot.New >= 0:
			if content, ok := f.applied[slot.New]; ok {
				result = append(result, content)
			}

		case slot.Old >= 0:
			if !f.removed[slot.Old] {
				result = append(result, change.Old[slot.Old])
			}
		}
	}

	// An old last line without terminator may not be last anymore.
	for i := 0; i < len(result)-1; i++ {
		if !strings.HasSuffix(result[i], "\n") {
			result[i] += "\n"
		}
	}

	return result
}

func (f *fileState) patch() FilePatch {
	return FilePatch{
		Path:    f.attribution.Path(),
		Content: f.render().Bytes(),
		Mode:    f.attribution.Change.Mode,
	}
}
