package gitrepo

import (
	"time"

	"github.com/go-git/go-git/v5/config"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/utils"
)

// CurrentAuthor returns the configured user, as git commit would use it.
func (r *Repository) CurrentAuthor() (model.Signature, error) {
	name := r.options.AuthorName
	email := r.options.AuthorEmail

	if name == "" || email == "" {
		cfg, err := r.repo.ConfigScoped(config.GlobalScope)
		if err != nil {
			return model.Signature{}, errors.Wrap(err, "error reading git config")
		}

		name = utils.Coalesce(name, cfg.Author.Name, cfg.User.Name)
		email = utils.Coalesce(email, cfg.Author.Email, cfg.User.Email)
	}

	if name == "" || email == "" {
		return model.Signature{}, errors.New("git user.name and user.email must be configured")
	}

	return model.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}, nil
}
