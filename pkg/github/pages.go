package github

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotGitHub is returned for remotes that are not hosted on github.com.
var ErrNotGitHub = errors.New("remote is not a github.com repository")

// PagesURL returns the html_url of the Pages site of owner/repo.
func (c *Client) PagesURL(ctx context.Context, owner, repo string) (string, error) {
	pages, _, err := c.gh.Repositories.GetPagesInfo(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to get pages info for %s/%s: %w", owner, repo, convertError(err))
	}
	if pages.GetHTMLURL() == "" {
		return "", fmt.Errorf("pages info for %s/%s has no html_url", owner, repo)
	}
	return pages.GetHTMLURL(), nil
}

// PagesURLForRemote resolves the Pages site of the repository behind a git
// remote URL.
func (c *Client) PagesURLForRemote(ctx context.Context, remoteURL string) (string, error) {
	owner, repo, ok := ParseRepoURL(remoteURL)
	if !ok {
		return "", ErrNotGitHub
	}
	return c.PagesURL(ctx, owner, repo)
}
