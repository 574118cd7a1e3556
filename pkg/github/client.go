// Package github looks up GitHub Pages sites for published repositories.
package github

import (
	"context"
	"net/http"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Client wraps a go-github client.
type Client struct {
	gh *github.Client
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the HTTP client used underneath the token transport.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// NewClient creates a Client. An empty token gives an unauthenticated
// client, which can still read public Pages sites.
func NewClient(token string, opts ...ClientOption) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &Client{gh: github.NewClient(httpClient)}
}
