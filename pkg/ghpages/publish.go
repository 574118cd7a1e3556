package ghpages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/holon-run/ghpages/pkg/git"
	"github.com/holon-run/ghpages/pkg/github"
	"github.com/holon-run/ghpages/pkg/log"
	"github.com/holon-run/ghpages/pkg/logs/redact"
	"github.com/holon-run/ghpages/pkg/workspace"
)

// PublishWithOptions publishes the files under dir to opts.Branch.
func (c *Client) PublishWithOptions(ctx context.Context, dir string, opts Options) error {
	opts = opts.withDefaults()
	logf := func(format string, args ...any) {
		opts.Logger(fmt.Sprintf(format, args...))
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	files, err := workspace.ListFiles(dir, opts.Dotfiles)
	if err != nil {
		return fmt.Errorf("failed to list files in %s: %w", dir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%s: %w", dir, ErrNoFiles)
	}

	repoURL, err := c.repoURL(opts)
	if err != nil {
		return err
	}

	cacheDir, err := workspace.CacheDir(c.cacheBase, redact.String(repoURL), dir)
	if err != nil {
		return fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	log.Debug("publishing", "source", dir, "files", len(files), "cache", cacheDir, "branch", opts.Branch)

	auth := c.authFor(repoURL)
	repo, ok := openCache(cacheDir, opts.Remote, repoURL, auth)
	if !ok {
		logf("Cloning %s into %s", redact.String(repoURL), cacheDir)
		if repo, err = initCache(cacheDir, opts.Remote, repoURL, auth); err != nil {
			return err
		}
	}

	logf("Cleaning")
	if err := repo.clean(); err != nil {
		return err
	}

	logf("Fetching %s", opts.Remote)
	exists, err := repo.fetch(ctx, opts.Branch, opts.Depth)
	if err != nil {
		return err
	}

	logf("Checking out %s/%s", opts.Remote, opts.Branch)
	if err := repo.checkout(opts.Branch, exists); err != nil {
		return err
	}

	if !opts.Add {
		logf("Removing files")
		if err := workspace.Clear(cacheDir, keepOnBranch(opts.Dotfiles)); err != nil {
			return fmt.Errorf("failed to remove files: %w", err)
		}
	}

	logf("Copying files")
	if err := workspace.CopyFiles(dir, cacheDir, files); err != nil {
		return fmt.Errorf("failed to copy files: %w", err)
	}

	logf("Adding all")
	logf("Committing")
	committed, err := repo.commit(opts.Message, c.signature(opts.User))
	if err != nil {
		return err
	}
	if !committed {
		log.Debug("nothing to commit", "branch", opts.Branch)
	}

	logf("Pushing")
	if err := repo.push(ctx, opts.Branch); err != nil {
		return err
	}

	c.reportPagesURL(ctx, repoURL, logf)
	return nil
}

// repoURL returns opts.Repo or the URL of opts.Remote in the source repository.
func (c *Client) repoURL(opts Options) (string, error) {
	if opts.Repo != "" {
		return opts.Repo, nil
	}
	u, err := git.RemoteURL(c.sourceDir, opts.Remote)
	if err != nil {
		log.Debug("remote lookup failed", "dir", c.sourceDir, "remote", opts.Remote, "error", err)
		return "", fmt.Errorf("%w for remote '%s'", ErrNoRemote, opts.Remote)
	}
	return u, nil
}

// keepOnBranch selects the worktree entries that survive "Removing files":
// always .git, and dot entries already on the branch unless dotfiles are
// published too.
func keepOnBranch(dotfiles bool) func(name string) bool {
	return func(name string) bool {
		if name == ".git" {
			return true
		}
		return !dotfiles && strings.HasPrefix(name, ".")
	}
}

func (c *Client) signature(u *User) *object.Signature {
	cfgOpts := git.ConfigOptions{RepoDir: c.sourceDir}
	if u != nil {
		cfgOpts.ExplicitAuthorName = u.Name
		cfgOpts.ExplicitAuthorEmail = u.Email
	}
	cfg := git.ResolveConfigFromEnv(cfgOpts)
	log.Debug("commit identity", "author", cfg.String())
	return &object.Signature{
		Name:  cfg.AuthorName,
		Email: cfg.AuthorEmail,
		When:  time.Now(),
	}
}

func (c *Client) reportPagesURL(ctx context.Context, repoURL string, logf func(string, ...any)) {
	if c.pagesLookup == nil {
		return
	}
	repo := redact.String(repoURL)
	site, err := c.pagesLookup(ctx, repoURL)
	switch {
	case err == nil:
		logf("Published to %s", site)
	case errors.Is(err, github.ErrNotGitHub):
		log.Debug("skipping pages lookup", "repo", repo)
	case github.IsNotFoundError(err):
		log.Debug("pages is not enabled", "repo", repo)
	case github.IsRateLimitError(err):
		log.Warn("pages lookup rate limited", "repo", repo, "error", err)
	case github.IsAuthenticationError(err):
		log.Warn("pages lookup not authorized, check GH_TOKEN", "repo", repo, "error", err)
	default:
		log.Warn("pages lookup failed", "repo", repo, "error", err)
	}
}
