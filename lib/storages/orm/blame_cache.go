package orm

import (
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/pescuma/git-reblame/lib/caches"
	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
)

var errCommitNotCached = errors.New("commit not in blame cache")

// BlameCache persists the blame results of another reader. The blame of a
// path at a commit never changes, so entries never expire.
type BlameCache struct {
	db      *gorm.DB
	console consoles.Console
	reader  history.Reader
	name    string

	commits *caches.Cache[model.CommitID, *model.Commit]
}

// NewBlameCache wraps reader. name identifies the reader, since different
// readers may attribute lines differently.
func NewBlameCache(d gorm.Dialector, console consoles.Console, reader history.Reader, name string) (*BlameCache, error) {
	l := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{
		NamingStrategy: &NamingStrategy{},
		Logger:         l,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error opening blame cache")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection keeps sqlite from returning busy errors, and in memory
	// databases are per connection.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&sqlBlame{}, &sqlCommit{})
	if err != nil {
		return nil, errors.Wrap(err, "error creating blame cache tables")
	}

	return &BlameCache{
		db:      db,
		console: console,
		reader:  reader,
		name:    name,
		commits: caches.NewCache[model.CommitID, *model.Commit](),
	}, nil
}

func (c *BlameCache) Close() error {
	db, err := c.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func (c *BlameCache) Blame(path string, commit model.CommitID) ([]*model.Commit, error) {
	result, ok, err := c.load(path, commit)
	if err != nil {
		return nil, err
	}
	if ok {
		return result, nil
	}

	result, err = c.reader.Blame(path, commit)
	if err != nil {
		// Not cached: a shallow clone may be deepened later.
		return nil, err
	}

	err = c.store(path, commit, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *BlameCache) load(path string, commit model.CommitID) ([]*model.Commit, bool, error) {
	var rows []*sqlBlame
	err := c.db.Where("reader = ? AND commit_id = ? AND path = ?", c.name, string(commit), path).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, errors.Wrap(err, "error reading blame cache")
	}
	if len(rows) == 0 {
		return nil, false, nil
	}

	ids := lo.Uniq(lo.Filter(rows[0].Lines, func(id string, _ int) bool {
		return id != "" && !c.commits.Has(model.CommitID(id))
	}))
	if len(ids) > 0 {
		var commits []*sqlCommit
		err = c.db.Where("id IN ?", ids).Find(&commits).Error
		if err != nil {
			return nil, false, errors.Wrap(err, "error reading blame cache")
		}

		for _, sc := range commits {
			c.commits.Put(model.CommitID(sc.ID), sc.toModel())
		}
	}

	result := make([]*model.Commit, len(rows[0].Lines))
	for i, id := range rows[0].Lines {
		if id == "" {
			continue
		}

		result[i], err = c.commits.Get(model.CommitID(id), c.loadCommit)
		if errors.Is(err, errCommitNotCached) {
			c.console.Verbosef("Blame cache of %v at %v references unknown commit %v, ignoring it\n", path, commit.Short(), id)
			return nil, false, nil
		} else if err != nil {
			return nil, false, err
		}
	}

	return result, true, nil
}

func (c *BlameCache) loadCommit(id model.CommitID) (*model.Commit, error) {
	var rows []*sqlCommit
	err := c.db.Where("id = ?", string(id)).Limit(1).Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "error reading blame cache")
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(errCommitNotCached, "commit %v", id.Short())
	}

	return rows[0].toModel(), nil
}

func (c *BlameCache) store(path string, commit model.CommitID, blame []*model.Commit) error {
	commits := lo.UniqBy(lo.Filter(blame, func(bc *model.Commit, _ int) bool { return bc != nil }),
		func(bc *model.Commit) model.CommitID { return bc.ID })

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if len(commits) > 0 {
			rows := lo.Map(commits, func(bc *model.Commit, _ int) *sqlCommit { return newSqlCommit(bc) })

			err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 100).Error
			if err != nil {
				return errors.Wrap(err, "error writing blame cache")
			}
		}

		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(newSqlBlame(c.name, commit, path, blame)).Error
		if err != nil {
			return errors.Wrap(err, "error writing blame cache")
		}

		return nil
	})
	if err != nil {
		return err
	}

	for _, bc := range commits {
		c.commits.Put(bc.ID, bc)
	}

	return nil
}

func (c *BlameCache) Sequence(head model.CommitID) (map[model.CommitID]int, error) {
	return c.reader.Sequence(head)
}
