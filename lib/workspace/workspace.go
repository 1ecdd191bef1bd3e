package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/consoles"
	"github.com/pescuma/git-reblame/lib/engine"
	"github.com/pescuma/git-reblame/lib/gitcli"
	"github.com/pescuma/git-reblame/lib/gitrepo"
	"github.com/pescuma/git-reblame/lib/history"
	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/storages"
	"github.com/pescuma/git-reblame/lib/storages/orm"
	"github.com/pescuma/git-reblame/lib/utils"
)

const (
	BlameGoGit = "go-git"
	BlameGit   = "git"
)

type Options struct {
	Dir string

	// Blame selects the history reader: BlameGoGit or BlameGit.
	Blame string

	// CacheFile stores blame results between runs. Empty disables the cache
	// and :memory: keeps it only for this run.
	CacheFile string

	AuthorName  string
	AuthorEmail string

	Verbose bool
}

type Workspace struct {
	console consoles.Console
	repo    *gitrepo.Repository
	history storages.HistoryStorage
}

func NewWorkspace(console consoles.Console, opts Options) (*Workspace, error) {
	repo, err := gitrepo.Open(console, utils.Coalesce(opts.Dir, "."), gitrepo.Options{
		AuthorName:  opts.AuthorName,
		AuthorEmail: opts.AuthorEmail,
	})
	if err != nil {
		return nil, err
	}

	reader, err := newReader(console, repo, opts)
	if err != nil {
		return nil, err
	}

	storage, err := newStorage(console, reader, opts)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		console: console,
		repo:    repo,
		history: storage,
	}, nil
}

func newReader(console consoles.Console, repo *gitrepo.Repository, opts Options) (history.Reader, error) {
	switch utils.Coalesce(opts.Blame, BlameGoGit) {
	case BlameGoGit:
		return repo, nil

	case BlameGit:
		root, err := repo.RootDir()
		if err != nil {
			return nil, err
		}

		return gitcli.New(console, root, gitcli.Options{Verbose: opts.Verbose})

	default:
		return nil, errors.Errorf("unknown blame reader: %v", opts.Blame)
	}
}

func newStorage(console consoles.Console, reader history.Reader, opts Options) (storages.HistoryStorage, error) {
	name := utils.Coalesce(opts.Blame, BlameGoGit)
	file := opts.CacheFile

	switch {
	case file == "":
		return storages.NewNoStorage(reader), nil

	case file == ":memory:":
		return orm.NewBlameCache(orm.WithSqliteInMemory(), console, reader, name)

	case strings.HasSuffix(file, ".sqlite"):
		file, err := utils.PathAbs(file)
		if err != nil {
			return nil, err
		}

		err = createCacheDir(console, file)
		if err != nil {
			return nil, err
		}

		return orm.NewBlameCache(orm.WithSqlite(file), console, reader, name)

	default:
		return nil, errors.Errorf("unknown storage type for file %v", file)
	}
}

func createCacheDir(console consoles.Console, file string) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Verbosef("Creating cache dir at %v\n", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return errors.Wrapf(err, "error creating cache dir %v", path)
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.history.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

func (w *Workspace) Repository() engine.Repository {
	return engine.Repository{
		WorkingTree: w.repo,
		History:     w.history,
		Objects:     w.repo,
		Identity:    w.repo,
	}
}

func (w *Workspace) Plan(opts engine.Options) (*engine.Plan, error) {
	return engine.New(w.console, w.Repository(), opts).Plan()
}

func (w *Workspace) Synthesize(opts engine.Options) ([]*model.SynthesizedCommit, error) {
	return engine.New(w.console, w.Repository(), opts).Synthesize()
}
