// Package cmd provides the CLI commands for docsearch.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsearch/internal/config"
)

// rootOptions holds the global flags and the configuration they produce.
type rootOptions struct {
	sitesFile   string
	contentRoot string
	indexPath   string

	cfg *config.Config
}

// NewRootCmd creates the root command for the docsearch CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "docsearch",
		Short: "Static full-text search over markdown documentation",
		Long: `docsearch indexes a tree of markdown documentation into heading-tagged
chunks, weights them with TF-IDF and answers queries by cosine similarity.

Configuration comes from the environment (or a .env file); the flags below
override it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(config.Overrides{
				SitesFile:   opts.sitesFile,
				ContentRoot: opts.contentRoot,
				IndexPath:   opts.indexPath,
			})
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts.cfg = cfg

			setupLogging(cfg, cmd.ErrOrStderr())
			for _, w := range cfg.Warnings {
				slog.Warn("configuration warning", "warning", w)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.sitesFile, "sites", "", "YAML file declaring several sites (overrides SITES_FILE)")
	cmd.PersistentFlags().StringVar(&opts.contentRoot, "content", "", "Content root of the default site (overrides CONTENT_ROOT)")
	cmd.PersistentFlags().StringVar(&opts.indexPath, "index", "", "Index file of the default site (overrides INDEX_PATH)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newBuildCmd(opts))
	cmd.AddCommand(newQueryCmd(opts))

	return cmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// setupLogging configures structured logging with configurable level and format.
func setupLogging(cfg *config.Config, w io.Writer) {
	handlerOpts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
}
