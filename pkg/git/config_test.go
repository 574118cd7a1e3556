package git

import (
	"testing"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
)

// isolateHome points the global git config at an empty home directory.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
}

// systemUser reports the identity set in the system scope, if any.
func systemUser(t *testing.T) (string, string) {
	t.Helper()
	cfg, err := gitconfig.LoadConfig(gitconfig.SystemScope)
	if err != nil {
		return "", ""
	}
	return cfg.User.Name, cfg.User.Email
}

// setupTestRepo initializes a repository with the given local identity.
func setupTestRepo(t *testing.T, name, email string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init git repo: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("failed to read repo config: %v", err)
	}
	cfg.User.Name = name
	cfg.User.Email = email
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("failed to write repo config: %v", err)
	}
	return dir
}

func TestResolveConfig_ExplicitOverride(t *testing.T) {
	isolateHome(t)
	dir := setupTestRepo(t, "Repo User", "repo@example.com")

	cfg := ResolveConfig(ConfigOptions{
		ExplicitAuthorName:  "Explicit User",
		ExplicitAuthorEmail: "explicit@example.com",
		RepoDir:             dir,
		EnvAuthorName:       "Env User",
		EnvAuthorEmail:      "env@example.com",
	})

	if cfg.AuthorName != "Explicit User" {
		t.Errorf("expected AuthorName 'Explicit User', got '%s'", cfg.AuthorName)
	}
	if cfg.AuthorEmail != "explicit@example.com" {
		t.Errorf("expected AuthorEmail 'explicit@example.com', got '%s'", cfg.AuthorEmail)
	}
}

func TestResolveConfig_RepoConfigBeatsEnv(t *testing.T) {
	isolateHome(t)
	dir := setupTestRepo(t, "Repo User", "repo@example.com")

	cfg := ResolveConfig(ConfigOptions{
		RepoDir:        dir,
		EnvAuthorName:  "Env User",
		EnvAuthorEmail: "env@example.com",
	})

	if cfg.AuthorName != "Repo User" {
		t.Errorf("expected AuthorName 'Repo User', got '%s'", cfg.AuthorName)
	}
	if cfg.AuthorEmail != "repo@example.com" {
		t.Errorf("expected AuthorEmail 'repo@example.com', got '%s'", cfg.AuthorEmail)
	}
}

func TestResolveConfig_PartialExplicit(t *testing.T) {
	isolateHome(t)
	dir := setupTestRepo(t, "Repo User", "repo@example.com")

	cfg := ResolveConfig(ConfigOptions{
		ExplicitAuthorName: "Explicit User",
		RepoDir:            dir,
	})

	if cfg.AuthorName != "Explicit User" {
		t.Errorf("expected AuthorName 'Explicit User', got '%s'", cfg.AuthorName)
	}
	if cfg.AuthorEmail != "repo@example.com" {
		t.Errorf("expected AuthorEmail 'repo@example.com', got '%s'", cfg.AuthorEmail)
	}
}

func TestResolveConfig_EnvFallback(t *testing.T) {
	isolateHome(t)
	if name, email := systemUser(t); name != "" || email != "" {
		t.Skip("system git config sets user identity")
	}
	dir := setupTestRepo(t, "", "")

	cfg := ResolveConfig(ConfigOptions{
		RepoDir:        dir,
		EnvAuthorName:  "Env User",
		EnvAuthorEmail: "env@example.com",
	})

	if cfg.AuthorName != "Env User" {
		t.Errorf("expected AuthorName 'Env User', got '%s'", cfg.AuthorName)
	}
	if cfg.AuthorEmail != "env@example.com" {
		t.Errorf("expected AuthorEmail 'env@example.com', got '%s'", cfg.AuthorEmail)
	}
}

func TestResolveConfig_Defaults(t *testing.T) {
	isolateHome(t)
	if name, email := systemUser(t); name != "" || email != "" {
		t.Skip("system git config sets user identity")
	}

	cfg := ResolveConfig(ConfigOptions{RepoDir: t.TempDir()})

	if cfg.AuthorName != DefaultAuthorName {
		t.Errorf("expected AuthorName '%s', got '%s'", DefaultAuthorName, cfg.AuthorName)
	}
	if cfg.AuthorEmail != DefaultAuthorEmail {
		t.Errorf("expected AuthorEmail '%s', got '%s'", DefaultAuthorEmail, cfg.AuthorEmail)
	}
}

func TestResolveConfigFromEnv(t *testing.T) {
	isolateHome(t)
	if name, email := systemUser(t); name != "" || email != "" {
		t.Skip("system git config sets user identity")
	}
	t.Setenv("GIT_AUTHOR_NAME", "From Env")
	t.Setenv("GIT_AUTHOR_EMAIL", "from-env@example.com")

	dir := setupTestRepo(t, "", "")

	cfg := ResolveConfigFromEnv(ConfigOptions{RepoDir: dir})
	if got := cfg.String(); got != "From Env <from-env@example.com>" {
		t.Errorf("expected 'From Env <from-env@example.com>', got '%s'", got)
	}

	// Explicit values still win over the environment.
	cfg = ResolveConfigFromEnv(ConfigOptions{RepoDir: dir, ExplicitAuthorName: "Explicit User"})
	if got := cfg.String(); got != "Explicit User <from-env@example.com>" {
		t.Errorf("expected 'Explicit User <from-env@example.com>', got '%s'", got)
	}
}

func TestFormatGitAuthor(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{"John Doe", "john@example.com", "John Doe <john@example.com>"},
		{"John Doe", "", "John Doe"},
		{"", "john@example.com", "john@example.com"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := FormatGitAuthor(tt.name, tt.email); got != tt.expected {
				t.Errorf("FormatGitAuthor(%q, %q) = %q, want %q", tt.name, tt.email, got, tt.expected)
			}
		})
	}
}
