package github

import (
	"regexp"
	"strings"
)

var (
	// Remote URL patterns for github.com:
	// - https://github.com/owner/repo(.git)
	// - git@github.com:owner/repo(.git)
	// - ssh://git@github.com(:22)/owner/repo(.git)
	httpsRepoPattern = regexp.MustCompile(`^https?://(?:[^@/]+@)?github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	scpRepoPattern   = regexp.MustCompile(`^[^@/]+@github\.com:([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshRepoPattern   = regexp.MustCompile(`^ssh://(?:[^@/]+@)?github\.com(?::\d+)?/([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// ParseRepoURL extracts owner and repository name from a github.com remote
// URL. ok is false for any other host or shape.
func ParseRepoURL(remoteURL string) (owner, repo string, ok bool) {
	remoteURL = strings.TrimSpace(remoteURL)

	for _, p := range []*regexp.Regexp{httpsRepoPattern, scpRepoPattern, sshRepoPattern} {
		if m := p.FindStringSubmatch(remoteURL); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}
