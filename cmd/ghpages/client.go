package main

import (
	"os"

	"github.com/holon-run/ghpages/pkg/ghpages"
	"github.com/holon-run/ghpages/pkg/github"
	"github.com/holon-run/ghpages/pkg/workspace"
)

// tokenEnvs are checked in order for a token for https remotes.
var tokenEnvs = []string{"GH_TOKEN", "GITHUB_TOKEN", "GHPAGES_TOKEN"}

func newClient(cwd string) *ghpages.Client {
	token := firstEnv(tokenEnvs...)
	return ghpages.New(
		ghpages.WithSourceDir(cwd),
		ghpages.WithToken(token),
		ghpages.WithCacheBase(os.Getenv(workspace.CacheDirEnv)),
		ghpages.WithPagesLookup(github.NewClient(token).PagesURLForRemote),
	)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
