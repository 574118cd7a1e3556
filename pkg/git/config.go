// Package git resolves what ghpages needs to know about the source
// repository: where its remote points and which identity commits.
package git

import (
	"fmt"
	"os"

	gitconfig "github.com/go-git/go-git/v5/config"
)

// DefaultAuthorName is the default git author name when no other config is available.
const DefaultAuthorName = "ghpages"

// DefaultAuthorEmail is the default git author email when no other config is available.
const DefaultAuthorEmail = "ghpages@users.noreply.github.com"

// Config holds resolved git configuration.
type Config struct {
	// AuthorName is the git user.name for commits.
	AuthorName string

	// AuthorEmail is the git user.email for commits.
	AuthorEmail string
}

// String formats the identity as "Name <email>".
func (c Config) String() string {
	return FormatGitAuthor(c.AuthorName, c.AuthorEmail)
}

// ConfigOptions holds options for resolving git configuration.
type ConfigOptions struct {
	// ExplicitAuthorName overrides every other source.
	ExplicitAuthorName string

	// ExplicitAuthorEmail overrides every other source.
	ExplicitAuthorEmail string

	// RepoDir is the source repository. Its local config is consulted
	// before the global and system scopes.
	RepoDir string

	// EnvAuthorName is the author name from environment variables (GIT_AUTHOR_NAME).
	EnvAuthorName string

	// EnvAuthorEmail is the author email from environment variables (GIT_AUTHOR_EMAIL).
	EnvAuthorEmail string
}

// ResolveConfig resolves the commit identity with the following priority:
//  1. Explicit overrides (ExplicitAuthorName/Email)
//  2. Git config scopes of RepoDir (local > global > system)
//  3. Environment variables (GIT_AUTHOR_NAME, GIT_AUTHOR_EMAIL)
//  4. Defaults ("ghpages <ghpages@users.noreply.github.com>")
//
// Name and email resolve independently, so a repository that only sets
// user.email still picks its name up from a lower source.
func ResolveConfig(opts ConfigOptions) Config {
	cfg := Config{
		AuthorName:  DefaultAuthorName,
		AuthorEmail: DefaultAuthorEmail,
	}

	if opts.EnvAuthorName != "" {
		cfg.AuthorName = opts.EnvAuthorName
	}
	if opts.EnvAuthorEmail != "" {
		cfg.AuthorEmail = opts.EnvAuthorEmail
	}

	name, email := scopedUser(opts.RepoDir)
	if name != "" {
		cfg.AuthorName = name
	}
	if email != "" {
		cfg.AuthorEmail = email
	}

	if opts.ExplicitAuthorName != "" {
		cfg.AuthorName = opts.ExplicitAuthorName
	}
	if opts.ExplicitAuthorEmail != "" {
		cfg.AuthorEmail = opts.ExplicitAuthorEmail
	}

	return cfg
}

// ResolveConfigFromEnv is ResolveConfig with EnvAuthorName and
// EnvAuthorEmail taken from GIT_AUTHOR_NAME and GIT_AUTHOR_EMAIL.
func ResolveConfigFromEnv(opts ConfigOptions) Config {
	opts.EnvAuthorName = os.Getenv("GIT_AUTHOR_NAME")
	opts.EnvAuthorEmail = os.Getenv("GIT_AUTHOR_EMAIL")
	return ResolveConfig(opts)
}

// scopedUser reads user.name and user.email from the merged local, global
// and system config. Without a readable repository only the global and
// system scopes are consulted.
func scopedUser(repoDir string) (string, string) {
	if repoDir != "" {
		if repo, err := OpenRepository(repoDir); err == nil {
			if cfg, err := repo.ConfigScoped(gitconfig.SystemScope); err == nil {
				return cfg.User.Name, cfg.User.Email
			}
		}
	}

	var name, email string
	for _, scope := range []gitconfig.Scope{gitconfig.SystemScope, gitconfig.GlobalScope} {
		cfg, err := gitconfig.LoadConfig(scope)
		if err != nil {
			continue
		}
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return name, email
}

// FormatGitAuthor formats a git author string in the format "Name <email>".
func FormatGitAuthor(name, email string) string {
	if name == "" && email == "" {
		return ""
	}
	if name == "" {
		return email
	}
	if email == "" {
		return name
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
