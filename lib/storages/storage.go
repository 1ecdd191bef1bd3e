package storages

import (
	"github.com/pescuma/git-reblame/lib/history"
)

// HistoryStorage is a history reader that may hold resources.
type HistoryStorage interface {
	history.Reader

	Close() error
}

// NewNoStorage wraps a reader that keeps nothing between runs.
func NewNoStorage(reader history.Reader) HistoryStorage {
	return &noStorage{Reader: reader}
}

type noStorage struct {
	history.Reader
}

func (n *noStorage) Close() error {
	return nil
}
