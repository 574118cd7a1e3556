// Package ghpages publishes a directory to a branch of a git remote.
//
// The publish clone is kept in a per-remote cache directory and reused
// across runs. Each publish fetches the target branch at a bounded depth,
// replaces its contents with the source directory, commits if anything
// changed, and pushes. Progress is reported as short human-readable
// messages through Options.Logger.
package ghpages

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/holon-run/ghpages/pkg/publisher"
)

const (
	DefaultBranch  = "gh-pages"
	DefaultRemote  = "origin"
	DefaultMessage = "Updates"
	DefaultDepth   = 1

	// tokenUser is the basic auth user name GitHub accepts with a token.
	tokenUser = "x-access-token"
)

// User is the commit identity.
type User struct {
	Name  string
	Email string
}

// Options controls a single publish.
type Options struct {
	// Branch is the branch that receives the files.
	Branch string

	// Remote is the remote name. When Repo is empty its URL is read from
	// the source repository.
	Remote string

	// Repo is the URL of the repository to push to.
	Repo string

	// Message is the commit message.
	Message string

	// Depth limits the fetched history. Zero or less fetches everything.
	Depth int

	// Dotfiles includes files and directories whose name starts with '.'.
	Dotfiles bool

	// Add keeps the files already on the branch instead of replacing them.
	Add bool

	// User overrides the resolved commit identity.
	User *User

	// Logger receives progress messages.
	Logger func(message string)
}

// DefaultOptions returns the options used by Publish.
func DefaultOptions() Options {
	return Options{
		Branch:  DefaultBranch,
		Remote:  DefaultRemote,
		Message: DefaultMessage,
		Depth:   DefaultDepth,
	}
}

// withDefaults fills empty string fields and the logger. Depth is taken
// as given.
func (o Options) withDefaults() Options {
	if o.Branch == "" {
		o.Branch = DefaultBranch
	}
	if o.Remote == "" {
		o.Remote = DefaultRemote
	}
	if o.Message == "" {
		o.Message = DefaultMessage
	}
	if o.Logger == nil {
		o.Logger = func(string) {}
	}
	return o
}

// PagesLookup resolves the Pages site URL for a repository URL.
type PagesLookup func(ctx context.Context, repoURL string) (string, error)

// Client publishes directories. It implements publisher.Client.
type Client struct {
	sourceDir   string
	cacheBase   string
	token       string
	pagesLookup PagesLookup
	defaults    Options
}

var _ publisher.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithSourceDir sets the repository whose remote and git config are used.
// It defaults to the current directory.
func WithSourceDir(dir string) Option {
	return func(c *Client) {
		c.sourceDir = dir
	}
}

// WithCacheBase sets the preferred base directory for publish clones.
func WithCacheBase(dir string) Option {
	return func(c *Client) {
		c.cacheBase = dir
	}
}

// WithToken sets the token used for http(s) remotes.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithPagesLookup reports the Pages site URL after a successful push.
func WithPagesLookup(lookup PagesLookup) Option {
	return func(c *Client) {
		c.pagesLookup = lookup
	}
}

// WithDefaults replaces the options Publish starts from.
func WithDefaults(opts Options) Option {
	return func(c *Client) {
		c.defaults = opts
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		sourceDir: ".",
		defaults:  DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Publish publishes dir with the client defaults, overriding Depth and
// Logger from opts.
func (c *Client) Publish(ctx context.Context, dir string, opts publisher.Options) error {
	o := c.defaults
	o.Depth = opts.Depth
	if opts.Logger != nil {
		o.Logger = opts.Logger
	}
	return c.PublishWithOptions(ctx, dir, o)
}

// authFor returns the auth method for repoURL. Only http(s) remotes get the
// token. Other transports use their own defaults.
func (c *Client) authFor(repoURL string) transport.AuthMethod {
	if c.token == "" {
		return nil
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return &http.BasicAuth{
			Username: tokenUser,
			Password: c.token,
		}
	}
	return nil
}
