package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"docsearch/internal/index"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var sites []string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild and save the index of every site",
		Long: `Scan each site's content root, rebuild its index from scratch and
replace the persisted index file atomically.

Examples:
  docsearch build
  docsearch build --site light --site dark
  docsearch build --content ./docs --index ./data/index.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, root, sites)
		},
	}

	cmd.Flags().StringSliceVar(&sites, "site", nil, "Only build the named sites (repeatable)")

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, root *rootOptions, names []string) error {
	a, err := newApp(root.cfg, false)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	selected, err := a.selectSites(names)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, rt := range selected {
		slog.Info("Building index", "site", rt.site.Name, "content_root", rt.site.ContentRoot)
		ix, err := rt.bootstrapper.Rebuild(ctx)
		if err != nil {
			return fmt.Errorf("site %s: %w", rt.site.Name, err)
		}
		stats := index.ComputeStats(ix, rt.pipeline.Params())
		_, _ = fmt.Fprintf(out, "%s: %d chunks from %d files, %d terms -> %s (version %s)\n",
			rt.site.Name, stats.Documents, stats.Files, stats.VocabularySize, rt.site.IndexPath, stats.IndexVersion)
	}
	return nil
}
