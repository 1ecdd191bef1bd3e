package gitrepo

import (
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage"
	"github.com/pkg/errors"

	"github.com/pescuma/git-reblame/lib/model"
	"github.com/pescuma/git-reblame/lib/synthesizer"
)

func (r *Repository) CommitTree(commit model.CommitID) (model.TreeID, error) {
	c, err := r.repo.CommitObject(toHash(commit))
	if err != nil {
		return "", errors.Wrapf(err, "error reading commit %v", commit.Short())
	}

	return model.TreeID(c.TreeHash.String()), nil
}

func (r *Repository) CreateTree(base model.TreeID, patches []synthesizer.FilePatch) (model.TreeID, error) {
	byPath := make(map[string]synthesizer.FilePatch, len(patches))
	for _, p := range patches {
		byPath[p.Path] = p
	}

	hash, err := r.patchTree(plumbing.NewHash(string(base)), byPath)
	if err != nil {
		return "", err
	}

	return model.TreeID(hash.String()), nil
}

// patchTree writes a copy of the tree at hash with patches applied. Paths in
// patches are relative to this tree. A zero hash is an empty tree.
func (r *Repository) patchTree(hash plumbing.Hash, patches map[string]synthesizer.FilePatch) (plumbing.Hash, error) {
	var entries []object.TreeEntry
	if !hash.IsZero() {
		tree, err := object.GetTree(r.repo.Storer, hash)
		if err != nil {
			return plumbing.ZeroHash, errors.Wrapf(err, "error reading tree %v", hash)
		}
		entries = append(entries, tree.Entries...)
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}
	set := func(entry object.TreeEntry) {
		if i, ok := index[entry.Name]; ok {
			entries[i] = entry
		} else {
			index[entry.Name] = len(entries)
			entries = append(entries, entry)
		}
	}

	subdirs := map[string]map[string]synthesizer.FilePatch{}
	for path, patch := range patches {
		dir, rest, found := strings.Cut(path, "/")
		if !found {
			blob, err := r.writeBlob(patch.Content)
			if err != nil {
				return plumbing.ZeroHash, err
			}

			mode := patch.Mode
			if mode == filemode.Empty {
				mode = filemode.Regular
			}

			set(object.TreeEntry{Name: path, Mode: mode, Hash: blob})
			continue
		}

		sub, ok := subdirs[dir]
		if !ok {
			sub = map[string]synthesizer.FilePatch{}
			subdirs[dir] = sub
		}
		sub[rest] = patch
	}

	for dir, sub := range subdirs {
		subHash := plumbing.ZeroHash
		if i, ok := index[dir]; ok && entries[i].Mode == filemode.Dir {
			subHash = entries[i].Hash
		}

		newHash, err := r.patchTree(subHash, sub)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		set(object.TreeEntry{Name: dir, Mode: filemode.Dir, Hash: newHash})
	}

	sortTreeEntries(entries)

	obj := r.repo.Storer.NewEncodedObject()
	err := (&object.Tree{Entries: entries}).Encode(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "error encoding tree")
	}

	result, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "error writing tree")
	}

	return result, nil
}

// sortTreeEntries uses git's order, where directories sort as if their name
// ended with a slash.
func sortTreeEntries(entries []object.TreeEntry) {
	key := func(e object.TreeEntry) string {
		if e.Mode == filemode.Dir {
			return e.Name + "/"
		}
		return e.Name
	}

	sort.Slice(entries, func(i, j int) bool {
		return key(entries[i]) < key(entries[j])
	})
}

func (r *Repository) writeBlob(content []byte) (plumbing.Hash, error) {
	obj := r.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(content)))

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "error writing blob")
	}

	_, err = w.Write(content)
	if err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, errors.Wrap(err, "error writing blob")
	}

	err = w.Close()
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "error writing blob")
	}

	result, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, "error writing blob")
	}

	return result, nil
}

func (r *Repository) CreateCommit(parent model.CommitID, tree model.TreeID, author, committer model.Signature, message string) (model.CommitID, error) {
	commit := &object.Commit{
		Author:       toSignature(author),
		Committer:    toSignature(committer),
		Message:      message,
		TreeHash:     plumbing.NewHash(string(tree)),
		ParentHashes: []plumbing.Hash{toHash(parent)},
	}

	obj := r.repo.Storer.NewEncodedObject()
	err := commit.Encode(obj)
	if err != nil {
		return "", errors.Wrap(err, "error encoding commit")
	}

	hash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return "", errors.Wrap(err, "error writing commit")
	}

	return toCommitID(hash), nil
}

func toSignature(s model.Signature) object.Signature {
	return object.Signature{
		Name:  s.Name,
		Email: s.Email,
		When:  s.When,
	}
}

// UpdateRef moves the branch HEAD points to, or HEAD itself when detached.
func (r *Repository) UpdateRef(old, new model.CommitID) error {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return errors.Wrap(err, "error reading HEAD")
	}

	name := plumbing.HEAD
	if head.Type() == plumbing.SymbolicReference {
		name = head.Target()
	}

	current, err := storer.ResolveReference(r.repo.Storer, name)
	if err != nil {
		return errors.Wrapf(err, "error reading %v", name)
	}

	if current.Hash() != toHash(old) {
		return errors.Wrapf(synthesizer.ErrRefUpdateConflict, "%v points to %v", name.Short(), current.Hash())
	}

	err = r.repo.Storer.CheckAndSetReference(plumbing.NewHashReference(name, toHash(new)), current)
	if errors.Is(err, storage.ErrReferenceHasChanged) {
		return errors.Wrapf(synthesizer.ErrRefUpdateConflict, "%v changed", name.Short())
	} else if err != nil {
		return errors.Wrapf(err, "error updating %v", name)
	}

	return nil
}
