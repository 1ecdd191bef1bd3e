package model

import (
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

type FileChange struct {
	Path string
	Old  Lines
	New  Lines
	Mode filemode.FileMode

	// Created is set when the path has no committed version.
	Created bool
}

func NewFileChange(path string, old, new Lines) *FileChange {
	return &FileChange{
		Path:    path,
		Old:     old,
		New:     new,
		Mode:    filemode.Regular,
		Created: len(old) == 0,
	}
}

func (f *FileChange) Unchanged() bool {
	if len(f.Old) != len(f.New) {
		return false
	}

	for i := range f.Old {
		if f.Old[i] != f.New[i] {
			return false
		}
	}

	return true
}
