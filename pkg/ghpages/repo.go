package ghpages

import (
	"context"
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/holon-run/ghpages/pkg/log"
)

// cacheRepo is the publish clone kept in the cache directory.
type cacheRepo struct {
	dir    string
	remote string
	url    string
	auth   transport.AuthMethod
	repo   *gogit.Repository
}

// openCache opens an existing publish clone at dir. It reports false when
// dir holds no usable clone of url.
func openCache(dir, remote, url string, auth transport.AuthMethod) (*cacheRepo, bool) {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return nil, false
	}
	r, err := repo.Remote(remote)
	if err != nil {
		log.Debug("cache has no matching remote", "dir", dir, "remote", remote)
		return nil, false
	}
	if urls := r.Config().URLs; len(urls) == 0 || urls[0] != url {
		log.Debug("cache tracks a different remote", "dir", dir, "remote", remote)
		return nil, false
	}
	return &cacheRepo{dir: dir, remote: remote, url: url, auth: auth, repo: repo}, true
}

// initCache replaces whatever is at dir with an empty repository that has
// url configured as remote.
func initCache(dir, remote, url string, auth transport.AuthMethod) (*cacheRepo, error) {
	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to remove stale cache %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache %s: %w", dir, err)
	}

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to init cache repository: %w", err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: remote,
		URLs: []string{url},
	}); err != nil {
		return nil, fmt.Errorf("failed to create remote '%s': %w", remote, err)
	}

	return &cacheRepo{dir: dir, remote: remote, url: url, auth: auth, repo: repo}, nil
}

func (c *cacheRepo) worktree() (*gogit.Worktree, error) {
	wt, err := c.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	return wt, nil
}

// clean removes untracked files and directories.
func (c *cacheRepo) clean() error {
	wt, err := c.worktree()
	if err != nil {
		return err
	}
	if err := wt.Clean(&gogit.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("failed to clean worktree: %w", err)
	}
	return nil
}

// fetch fetches branch into its remote-tracking ref. It reports false when
// the branch does not exist on the remote yet.
func (c *cacheRepo) fetch(ctx context.Context, branch string, depth int) (bool, error) {
	spec := config.RefSpec(fmt.Sprintf("+%s:%s",
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName(c.remote, branch)))

	opts := &gogit.FetchOptions{
		RemoteName: c.remote,
		RefSpecs:   []config.RefSpec{spec},
		Tags:       gogit.NoTags,
		Auth:       c.auth,
		Force:      true,
	}
	if depth > 0 {
		opts.Depth = depth
	}

	err := c.repo.FetchContext(ctx, opts)
	switch {
	case err == nil, errors.Is(err, gogit.NoErrAlreadyUpToDate):
		return true, nil
	case errors.Is(err, gogit.NoMatchingRefSpecError{}),
		errors.Is(err, transport.ErrEmptyRemoteRepository):
		return false, nil
	default:
		return false, newGitError("fetch", c.url, err)
	}
}

// checkout points HEAD at branch. With exists the branch is hard reset to
// the fetched commit, otherwise it becomes an unborn branch with an empty
// index and worktree.
func (c *cacheRepo) checkout(branch string, exists bool) error {
	local := plumbing.NewBranchReferenceName(branch)
	tracking := plumbing.NewRemoteReferenceName(c.remote, branch)

	if err := c.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, local)); err != nil {
		return fmt.Errorf("failed to set HEAD: %w", err)
	}

	wt, err := c.worktree()
	if err != nil {
		return err
	}

	if exists {
		ref, err := c.repo.Reference(tracking, true)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", tracking, err)
		}
		if err := c.repo.Storer.SetReference(plumbing.NewHashReference(local, ref.Hash())); err != nil {
			return fmt.Errorf("failed to update branch %s: %w", branch, err)
		}
		if err := wt.Reset(&gogit.ResetOptions{Commit: ref.Hash(), Mode: gogit.HardReset}); err != nil {
			return fmt.Errorf("failed to reset to %s: %w", tracking, err)
		}
		return nil
	}

	for _, name := range []plumbing.ReferenceName{local, tracking} {
		if err := c.repo.Storer.RemoveReference(name); err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	if err := c.repo.Storer.SetIndex(&index.Index{Version: 2}); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	if err := wt.Clean(&gogit.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("failed to clean worktree: %w", err)
	}
	return nil
}

// commit stages everything, deletions included, and commits if the result
// differs from HEAD. It reports whether a commit was made.
func (c *cacheRepo) commit(message string, author *object.Signature) (bool, error) {
	wt, err := c.worktree()
	if err != nil {
		return false, err
	}

	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("failed to stage changes: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get status: %w", err)
	}
	if status.IsClean() {
		return false, nil
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: author})
	if err != nil {
		return false, fmt.Errorf("failed to commit: %w", err)
	}
	log.Debug("committed", "hash", hash.String(), "dir", c.dir)
	return true, nil
}

// push pushes branch to the remote branch of the same name.
func (c *cacheRepo) push(ctx context.Context, branch string) error {
	ref := plumbing.NewBranchReferenceName(branch)

	err := c.repo.PushContext(ctx, &gogit.PushOptions{
		RemoteName: c.remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
		Auth:       c.auth,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return newGitError("push", c.url, err)
	}
	return nil
}
