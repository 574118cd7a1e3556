package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoRemoteURL is returned when the remote exists but has no URL.
var ErrNoRemoteURL = errors.New("remote has no url")

// OpenRepository opens the repository containing dir, searching parent
// directories for .git like the git CLI does.
func OpenRepository(dir string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
}

// RemoteURL returns the first URL of remote in the repository containing dir.
func RemoteURL(dir, remote string) (string, error) {
	repo, err := OpenRepository(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	r, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote '%s': %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("remote '%s': %w", remote, ErrNoRemoteURL)
	}
	return urls[0], nil
}
