package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info describes the checkout a release is cut from.
type Info struct {
	Commit string // Empty when the source root is not a repository
	Branch string // Empty on a detached HEAD
}

// ReadHead returns the HEAD commit of the repository containing repoPath.
// Parent directories are searched for the .git directory.
func ReadHead(repoPath string) (Info, error) {
	repo, err := open(repoPath)
	if err != nil || repo == nil {
		return Info{}, err
	}

	ref, err := repo.Head()
	if err != nil {
		// Freshly initialized repository without commits.
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Info{}, nil
		}
		return Info{}, fmt.Errorf("resolve HEAD: %w", err)
	}

	info := Info{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// TagExists reports whether refs/tags/<tag> exists in the repository
// containing repoPath.
func TagExists(repoPath, tag string) (bool, error) {
	repo, err := open(repoPath)
	if err != nil || repo == nil {
		return false, err
	}
	_, err = repo.Reference(plumbing.NewTagReferenceName(tag), false)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup tag %s: %w", tag, err)
	}
}

// open returns nil without error when repoPath is not inside a repository.
func open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}
