package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"docsearch/internal/config"
	"docsearch/internal/content"
	"docsearch/internal/index"
	"docsearch/internal/indexer"
	"docsearch/internal/search"
	"docsearch/internal/service"
	"docsearch/internal/storage"
	"docsearch/internal/tokenizer"
)

// siteRuntime is one configured site wired from scanner to cached searcher.
type siteRuntime struct {
	site         config.Site
	pipeline     *indexer.Pipeline
	bootstrapper *indexer.Bootstrapper
	engine       *search.Engine
	searcher     *search.CachedSearcher
}

// app owns the resources shared by the commands.
type app struct {
	cfg   *config.Config
	db    *sql.DB
	sites []*siteRuntime
}

// newApp wires every configured site. With checkStale set, a persisted index
// is compared with the build manifest before it is served.
func newApp(cfg *config.Config, checkStale bool) (*app, error) {
	a := &app{cfg: cfg}

	var manifest storage.ManifestStore
	if cfg.DBPath != "" {
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := storage.Migrate(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.db = db
		manifest = storage.NewManifestRepo(db)
		slog.Debug("Build manifest initialized", "path", cfg.DBPath)
	}

	for _, site := range cfg.Sites {
		rt, err := newSiteRuntime(site, cfg, manifest, checkStale)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}
		a.sites = append(a.sites, rt)
	}
	return a, nil
}

func newSiteRuntime(site config.Site, cfg *config.Config, manifest storage.ManifestStore, checkStale bool) (*siteRuntime, error) {
	tok, err := tokenizer.New(site.Stemmer)
	if err != nil {
		return nil, err
	}
	chunker, err := indexer.NewChunker(indexer.ChunkerOptions{
		MaxWords:     site.MaxWords,
		OverlapWords: site.OverlapWords,
	})
	if err != nil {
		return nil, err
	}

	scanner := content.NewScanner(site.ContentRoot, cfg.WalkConcurrency)
	// The index, its lock and the manifest may live under the content root
	scanner.Exclude(site.IndexPath, cfg.DBPath)
	pipeline := indexer.NewPipeline(scanner, chunker, tok)
	store := index.NewFileStore(site.IndexPath)
	bootstrapper := indexer.NewBootstrapper(pipeline, store, indexer.BootstrapOptions{
		Site:       site.Name,
		Manifest:   manifest,
		CheckStale: checkStale,
	})

	engine := search.NewEngine(tok, nil)
	searcher, err := search.NewCachedSearcher(engine, cfg.QueryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}

	return &siteRuntime{
		site:         site,
		pipeline:     pipeline,
		bootstrapper: bootstrapper,
		engine:       engine,
		searcher:     searcher,
	}, nil
}

// backends returns the service wiring of every site in configuration order.
func (a *app) backends() []service.SiteBackend {
	backends := make([]service.SiteBackend, len(a.sites))
	for i, rt := range a.sites {
		backends[i] = service.SiteBackend{
			Name:        rt.site.Name,
			Engine:      rt.engine,
			Searcher:    rt.searcher,
			Rebuilder:   rt.bootstrapper,
			Params:      rt.pipeline.Params(),
			DefaultTopK: rt.site.TopK,
		}
	}
	return backends
}

// selectSites returns the named sites, or all sites when names is empty.
func (a *app) selectSites(names []string) ([]*siteRuntime, error) {
	if len(names) == 0 {
		return a.sites, nil
	}
	var out []*siteRuntime
	for _, name := range names {
		i := slices.IndexFunc(a.sites, func(rt *siteRuntime) bool { return rt.site.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown site %q", name)
		}
		out = append(out, a.sites[i])
	}
	return out, nil
}

// bootstrapAll loads or builds each site's index and activates it.
func (a *app) bootstrapAll(ctx context.Context, svc service.SearchService, sites []*siteRuntime) error {
	for _, rt := range sites {
		ix, err := rt.bootstrapper.Bootstrap(ctx)
		if err != nil {
			return fmt.Errorf("site %s: %w", rt.site.Name, err)
		}
		if err := svc.Activate(ctx, rt.site.Name, ix); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the manifest database.
func (a *app) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
