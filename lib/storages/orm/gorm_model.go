package orm

import (
	"time"

	"github.com/samber/lo"

	"github.com/pescuma/git-reblame/lib/model"
)

type sqlBlame struct {
	Reader   string `gorm:"primaryKey"`
	CommitID string `gorm:"primaryKey"`
	Path     string `gorm:"primaryKey"`

	// Lines has the id of the commit of every line. Empty for unknown lines.
	Lines []string `gorm:"serializer:json"`

	CreatedAt time.Time
}

func newSqlBlame(reader string, commit model.CommitID, path string, blame []*model.Commit) *sqlBlame {
	return &sqlBlame{
		Reader:   reader,
		CommitID: string(commit),
		Path:     path,
		Lines: lo.Map(blame, func(c *model.Commit, _ int) string {
			if c == nil {
				return ""
			}
			return string(c.ID)
		}),
	}
}

type sqlCommit struct {
	ID string `gorm:"primaryKey"`

	AuthorName     string
	AuthorEmail    string
	AuthorDate     time.Time
	CommitterName  string
	CommitterEmail string
	CommitterDate  time.Time
	Message        string

	CreatedAt time.Time
}

func newSqlCommit(c *model.Commit) *sqlCommit {
	return &sqlCommit{
		ID:             string(c.ID),
		AuthorName:     c.Author.Name,
		AuthorEmail:    c.Author.Email,
		AuthorDate:     c.Author.When,
		CommitterName:  c.Committer.Name,
		CommitterEmail: c.Committer.Email,
		CommitterDate:  c.Committer.When,
		Message:        c.Message,
	}
}

func (s *sqlCommit) toModel() *model.Commit {
	return &model.Commit{
		ID:        model.CommitID(s.ID),
		Author:    model.Signature{Name: s.AuthorName, Email: s.AuthorEmail, When: s.AuthorDate},
		Committer: model.Signature{Name: s.CommitterName, Email: s.CommitterEmail, When: s.CommitterDate},
		Message:   s.Message,
	}
}
