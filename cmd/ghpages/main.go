package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/holon-run/ghpages/pkg/log"
	"github.com/holon-run/ghpages/pkg/publisher"
)

// logLevelEnv selects the diagnostic log level (debug, info, progress, warn, error).
const logLevelEnv = "GHPAGES_LOG_LEVEL"

var rootCmd = &cobra.Command{
	Use:   "ghpages",
	Short: "Publish ./dist to the gh-pages branch",
	Long: `Publish the dist directory of the current project to the gh-pages
branch of its origin remote.

If ./dist does not exist the command does nothing. Otherwise its files
replace the contents of the branch, progress is printed line by line, and
"gh-paged" is printed once the push succeeded.

Authentication for https remotes is read from GH_TOKEN, GITHUB_TOKEN or
GHPAGES_TOKEN. The publish clone is cached under the user cache directory,
or under GHPAGES_CACHE_DIR when set.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       versionString(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), cmd.OutOrStdout())
	},
}

func run(ctx context.Context, stdout io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	return publisher.New(newClient(cwd), stdout).Run(ctx, cwd)
}

// execute runs the root command and returns the process exit code.
func execute() int {
	if err := log.Init(log.Config{Level: log.ParseLevel(os.Getenv(logLevelEnv))}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("ghpages failed", "error", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute())
}
