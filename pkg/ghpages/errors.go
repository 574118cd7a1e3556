package ghpages

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/holon-run/ghpages/pkg/logs/redact"
)

var (
	// ErrNotDirectory is returned when the publish source is not a directory.
	ErrNotDirectory = errors.New("publish source is not a directory")

	// ErrNoFiles is returned when the publish source holds no files to publish.
	ErrNoFiles = errors.New("no files to publish")

	// ErrNoRemote is returned when the repository URL cannot be resolved.
	ErrNoRemote = errors.New("failed to get remote url")
)

// Kind classifies a GitError.
type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindNotFound
	KindRejected
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not found"
	case KindRejected:
		return "rejected"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

// GitError is a failed git operation against the publish remote.
type GitError struct {
	Op   string
	URL  string
	Kind Kind
	Err  error
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s %s (%s): %s", e.Op, redact.String(e.URL), e.Kind, redact.String(e.Err.Error()))
}

func (e *GitError) Unwrap() error { return e.Err }

func newGitError(op, url string, err error) *GitError {
	return &GitError{Op: op, URL: url, Kind: classify(err), Err: err}
}

// IsKind reports whether err wraps a GitError of kind k.
func IsKind(err error, k Kind) bool {
	var gitErr *GitError
	return errors.As(err, &gitErr) && gitErr.Kind == k
}

// classify maps go-git transport failures to a Kind, falling back to the
// error text for failures that go-git does not type.
func classify(err error) Kind {
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		errors.Is(err, transport.ErrInvalidAuthMethod):
		return KindAuth
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return KindNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "non-fast-forward"),
		strings.Contains(l, "rejected"),
		strings.Contains(l, "some refs were not updated"):
		return KindRejected
	case strings.Contains(l, "auth"):
		return KindAuth
	case strings.Contains(l, "not found") || strings.Contains(l, "does not exist"):
		return KindNotFound
	case strings.Contains(l, "connection refused"),
		strings.Contains(l, "no such host"),
		strings.Contains(l, "network is unreachable"),
		strings.Contains(l, "timeout"):
		return KindNetwork
	}
	return KindOther
}
