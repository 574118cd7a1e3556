// Package workspace manages the local clone ghpages publishes from: where it
// lives on disk and how build output is copied into its worktree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// CacheDirEnv overrides the base directory for publish clones.
const CacheDirEnv = "GHPAGES_CACHE_DIR"

const (
	cacheSubdir = "ghpages"
	// maxNameLen caps a filenamified repository URL.
	maxNameLen = 100
)

// CacheDir returns the clone directory used for repoURL. Candidate bases are
// tried in order: base (if set), the user cache dir, then the temp dir. A
// candidate that overlaps source is skipped so the clone never lands inside
// the directory being published, nor the other way round.
func CacheDir(base, repoURL, source string) (string, error) {
	if strings.TrimSpace(repoURL) == "" {
		return "", fmt.Errorf("repository url is empty")
	}

	var absSource string
	if source != "" {
		var err error
		if absSource, err = cleanAbs(source); err != nil {
			return "", err
		}
	}

	var candidates []string
	if strings.TrimSpace(base) != "" {
		candidates = append(candidates, base)
	}
	if cacheDir, err := os.UserCacheDir(); err == nil && cacheDir != "" {
		candidates = append(candidates, cacheDir)
	}
	candidates = append(candidates, os.TempDir())

	name := Filenamify(repoURL)
	var lastErr error
	for _, candidate := range candidates {
		absBase, err := cleanAbs(candidate)
		if err != nil {
			lastErr = err
			continue
		}
		dir := filepath.Join(absBase, cacheSubdir, name)
		if absSource != "" && PathOverlaps(dir, absSource) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			lastErr = err
			continue
		}
		return dir, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("no cache directory available outside %q", absSource)
}

// Filenamify turns s into a single safe path segment. Reserved and control
// characters become '!', runs of '!' collapse, and leading or trailing '!'
// are stripped.
func Filenamify(s string) string {
	if s == "." || s == ".." {
		return "!"
	}

	var b strings.Builder
	lastBang := false
	for _, r := range s {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`<>:"/\|?*`, r) {
			r = '!'
		}
		if r == '!' {
			if lastBang {
				continue
			}
			lastBang = true
		} else {
			lastBang = false
		}
		b.WriteRune(r)
	}

	out := b.String()
	if len(out) > 1 {
		out = strings.Trim(out, "!")
	}
	for len(out) > maxNameLen {
		_, size := utf8.DecodeLastRuneInString(out)
		out = out[:len(out)-size]
	}
	if out == "" {
		return "!"
	}
	return out
}

// PathOverlaps reports whether one path equals or contains the other.
func PathOverlaps(a, b string) bool {
	return isSubpath(a, b) || isSubpath(b, a)
}

// cleanAbs returns the absolute path with symlinks resolved. For a path that
// does not exist yet the deepest existing ancestor is resolved.
func cleanAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	var rest []string
	for p := abs; ; {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return abs, nil
		}
		rest = append([]string{filepath.Base(p)}, rest...)
		p = parent
	}
}

// isSubpath checks if candidate is parent or lies below it.
func isSubpath(candidate, parent string) bool {
	rel, err := filepath.Rel(parent, candidate)
	if err != nil {
		return false
	}
	rel = filepath.Clean(rel)
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
