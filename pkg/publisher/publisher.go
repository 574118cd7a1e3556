// Package publisher publishes a project's build output directory.
//
// A Publisher looks for "dist" under a working directory. When it is there,
// the directory is handed to a Client in a single call and every status
// message the Client reports is echoed to stdout, followed by a fixed
// confirmation line once the Client succeeds. When it is not there, Run does
// nothing at all.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/holon-run/ghpages/pkg/log"
)

const (
	// DistDir is the directory published relative to the working directory.
	DistDir = "dist"

	// Depth is the history depth requested from the Client.
	Depth = 1

	// Confirmation is written to stdout after a successful publish.
	Confirmation = "gh-paged"
)

// Options is passed to Client.Publish.
type Options struct {
	// Depth is the history depth of the publish clone.
	Depth int

	// Logger receives human-readable status messages while publishing.
	Logger func(message string)
}

// Client performs the actual publish. It must return nil only when the
// publish fully succeeded.
type Client interface {
	Publish(ctx context.Context, dir string, opts Options) error
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, dir string, opts Options) error

// Publish calls f(ctx, dir, opts).
func (f ClientFunc) Publish(ctx context.Context, dir string, opts Options) error {
	return f(ctx, dir, opts)
}

// Publisher publishes <workDir>/dist through a Client.
type Publisher struct {
	client Client
	stdout io.Writer
}

// New creates a Publisher. A nil stdout discards output.
func New(client Client, stdout io.Writer) *Publisher {
	if stdout == nil {
		stdout = io.Discard
	}
	return &Publisher{client: client, stdout: stdout}
}

// Target returns the directory Run publishes for workDir.
func Target(workDir string) string {
	return filepath.Join(workDir, DistDir)
}

// Run publishes <workDir>/dist if it exists.
//
// An absent target is not an error and produces no output. Errors from the
// Client are returned unchanged and suppress the confirmation line.
func (p *Publisher) Run(ctx context.Context, workDir string) error {
	target := Target(workDir)

	if !exists(target) {
		log.Debug("nothing to publish", "path", target)
		return nil
	}

	log.Debug("publishing", "path", target, "depth", Depth)
	err := p.client.Publish(ctx, target, Options{
		Depth:  Depth,
		Logger: p.onMessage,
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(p.stdout, Confirmation)
	return nil
}

func (p *Publisher) onMessage(message string) {
	_, _ = fmt.Fprintln(p.stdout, message)
}

// exists reports whether path names an entry of any type. Stat failures of
// any kind count as absence.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
