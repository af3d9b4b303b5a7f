package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"docsearch/internal/http"
	"docsearch/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var checkStale bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API",
		Long: `Start the HTTP API and bring every site's index up in the background.

A site answers 503 until its index is loaded or built; /api/health reports
"starting" until all sites are ready.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), root, checkStale)
		},
	}

	cmd.Flags().BoolVar(&checkStale, "check-stale", true, "Rebuild a persisted index whose files changed since it was built")

	return cmd
}

func runServe(ctx context.Context, root *rootOptions, checkStale bool) error {
	cfg := root.cfg
	a, err := newApp(cfg, checkStale)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	svc := service.NewSearchService(a.backends()...)
	router := http.NewRouter(&http.Deps{SearchService: svc})

	// Bring indexes up after the router is ready
	var bootstraps sync.WaitGroup
	for _, rt := range a.sites {
		bootstraps.Add(1)
		go func() {
			defer bootstraps.Done()
			slog.Info("Starting index bootstrap", "site", rt.site.Name, "content_root", rt.site.ContentRoot)
			if err := a.bootstrapAll(ctx, svc, []*siteRuntime{rt}); err != nil {
				slog.Error("Index bootstrap failed", "site", rt.site.Name, "error", err)
			}
		}()
	}

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			bootstraps.Wait()
			return fmt.Errorf("API server failed: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("API server shutdown incomplete", "error", err)
		}
	}

	bootstraps.Wait()
	svc.Wait()
	return nil
}
