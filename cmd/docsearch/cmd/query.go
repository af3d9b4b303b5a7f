package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docsearch/internal/search"
	"docsearch/internal/service"
)

// queryOptions holds CLI flags for query.
type queryOptions struct {
	site       string
	topK       int
	format     string // "text", "json"
	checkStale bool
}

func newQueryCmd(root *rootOptions) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Search a site from the command line",
		Long: `Load (or build) a site's index and print the best matching chunks.

Examples:
  docsearch query "install kubernetes"
  docsearch query "theme colors" --site dark --top-k 3
  docsearch query "configuration" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runQuery(cmd.Context(), cmd.OutOrStdout(), root, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.site, "site", "", "Site to search (default: the first configured site)")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 0, "Maximum number of results (default: the site's TOP_K)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.checkStale, "check-stale", false, "Rebuild the index first if its files changed")

	return cmd
}

func runQuery(ctx context.Context, out io.Writer, root *rootOptions, query string, opts queryOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	a, err := newApp(root.cfg, opts.checkStale)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	var names []string
	if opts.site != "" {
		names = []string{opts.site}
	}
	selected, err := a.selectSites(names)
	if err != nil {
		return err
	}
	target := selected[0]

	svc := service.NewSearchService(a.backends()...)
	if err := a.bootstrapAll(ctx, svc, []*siteRuntime{target}); err != nil {
		return err
	}

	resp, err := svc.Search(ctx, service.SearchRequest{Site: target.site.Name, Query: query, TopK: opts.topK})
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return writeResults(out, resp.Results)
}

// writeResults prints one ranked result per block.
func writeResults(out io.Writer, results []search.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "No results.")
		return err
	}
	for i, r := range results {
		chunk := r.Doc.Chunk
		lines := fmt.Sprintf("%d", chunk.StartLine)
		if chunk.EndLine > chunk.StartLine {
			lines = fmt.Sprintf("%d-%d", chunk.StartLine, chunk.EndLine)
		}
		if _, err := fmt.Fprintf(out, "%d. %.4f  %s:%s  %s\n   %s\n",
			i+1, r.Score, r.Doc.Path, lines, strings.Join(chunk.HeadingPath, " > "), snippet(chunk.Text, 160)); err != nil {
			return err
		}
	}
	return nil
}

// snippet shortens text to at most n runes on a word boundary.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
