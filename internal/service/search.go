package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_search_service.go -package=mocks -mock_names=SearchService=MockSearchService docsearch/internal/service SearchService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"docsearch/internal/contextutil"
	"docsearch/internal/index"
	"docsearch/internal/search"
)

const (
	// MaxTopK bounds the number of results a caller may request.
	MaxTopK = 100
	// MaxQueryLength bounds the query length in characters.
	MaxQueryLength = 1024
)

// IndexEngine serves queries and holds the active index of a site.
// *search.Engine implements it.
type IndexEngine interface {
	search.Searcher
	Index() *index.Index
	Swap(ix *index.Index) uint64
}

// Rebuilder produces and persists a fresh index. *indexer.Bootstrapper implements it.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*index.Index, error)
}

// SiteBackend wires one configured site into the service.
type SiteBackend struct {
	Name   string
	Engine IndexEngine
	// Searcher answers queries; nil uses Engine directly.
	Searcher  search.Searcher
	Rebuilder Rebuilder
	Params    index.BuildParams
	// DefaultTopK applies when a request does not set top_k.
	DefaultTopK int
}

// SearchRequest represents a search request in the domain layer.
type SearchRequest struct {
	Site  string // empty selects the default site
	Query string
	TopK  int // zero selects the site default
}

// SearchResponse represents ranked results in the domain layer.
type SearchResponse struct {
	Site    string          `json:"site"`
	Results []search.Result `json:"results"`
}

// SiteStats is the index summary of one site.
type SiteStats struct {
	Site string `json:"site"`
	index.Stats
}

// SiteStatus describes the serving state of a site.
type SiteStatus struct {
	Name       string `json:"name"`
	Ready      bool   `json:"ready"`
	Rebuilding bool   `json:"rebuilding"`
	Generation uint64 `json:"generation"`
	Documents  int    `json:"documents"`
}

// SearchService answers queries and manages the indexes of configured sites.
type SearchService interface {
	// Search ranks the site's documents against the query.
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	// Stats summarizes the site's active index.
	Stats(ctx context.Context, site string) (SiteStats, error)
	// Activate serves ix for site and marks the site ready.
	Activate(ctx context.Context, site string, ix *index.Index) error
	// StartRebuild rebuilds the site's index in the background and swaps it
	// in when done. It returns immediately.
	StartRebuild(ctx context.Context, site string) error
	// Status reports every site in configuration order.
	Status(ctx context.Context) []SiteStatus
	// Wait blocks until background rebuilds have finished.
	Wait()
}

type siteEntry struct {
	backend    SiteBackend
	searcher   search.Searcher
	ready      atomic.Bool
	rebuilding atomic.Bool
}

// searchService implements SearchService.
type searchService struct {
	sites   map[string]*siteEntry
	order   []string
	logger  *slog.Logger
	pending sync.WaitGroup
}

// NewSearchService creates a SearchService over backends. The first backend
// is the default site. Sites start unavailable until Activate is called.
func NewSearchService(backends ...SiteBackend) SearchService {
	s := &searchService{
		sites:  make(map[string]*siteEntry, len(backends)),
		logger: slog.Default(),
	}
	for _, b := range backends {
		if b.DefaultTopK <= 0 {
			b.DefaultTopK = search.DefaultTopK
		}
		entry := &siteEntry{backend: b, searcher: b.Searcher}
		if entry.searcher == nil {
			entry.searcher = b.Engine
		}
		s.sites[b.Name] = entry
		s.order = append(s.order, b.Name)
	}
	return s
}

func (s *searchService) site(name string) (*siteEntry, error) {
	if name == "" && len(s.order) > 0 {
		name = s.order[0]
	}
	entry, ok := s.sites[name]
	if !ok {
		return nil, WrapError(ErrNotFound, fmt.Sprintf("site %q", name))
	}
	return entry, nil
}

// Search validates the request and ranks the site's documents. A blank query
// is not an error; it matches nothing and returns no results.
func (s *searchService) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	logger := contextutil.Logger(ctx, s.logger)

	// Business validation
	if req.TopK < 0 || req.TopK > MaxTopK {
		logger.WarnContext(ctx, "top_k out of range", "top_k", req.TopK)
		return SearchResponse{}, &ValidationError{
			Field:   "top_k",
			Message: fmt.Sprintf("must be between 0 and %d", MaxTopK),
		}
	}
	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		logger.WarnContext(ctx, "query too long", "length", utf8.RuneCountInString(req.Query))
		return SearchResponse{}, &ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("must be at most %d characters", MaxQueryLength),
		}
	}

	entry, err := s.site(req.Site)
	if err != nil {
		return SearchResponse{}, err
	}
	if !entry.ready.Load() {
		return SearchResponse{}, WrapError(ErrIndexUnavailable, fmt.Sprintf("site %q", entry.backend.Name))
	}

	resp := SearchResponse{Site: entry.backend.Name, Results: []search.Result{}}
	if strings.TrimSpace(req.Query) == "" {
		logger.DebugContext(ctx, "blank query", "site", resp.Site)
		return resp, nil
	}

	topK := req.TopK
	if topK == 0 {
		topK = entry.backend.DefaultTopK
	}
	resp.Results = entry.searcher.Search(req.Query, topK)

	logger.InfoContext(ctx, "search processed", "site", resp.Site, "query_length", len(req.Query), "top_k", topK, "results", len(resp.Results))
	return resp, nil
}

// Stats summarizes the site's active index. An empty site resolves to the
// default site, whose name is reported.
func (s *searchService) Stats(ctx context.Context, site string) (SiteStats, error) {
	entry, err := s.site(site)
	if err != nil {
		return SiteStats{}, err
	}
	if !entry.ready.Load() {
		return SiteStats{}, WrapError(ErrIndexUnavailable, fmt.Sprintf("site %q", entry.backend.Name))
	}
	return SiteStats{
		Site:  entry.backend.Name,
		Stats: index.ComputeStats(entry.backend.Engine.Index(), entry.backend.Params),
	}, nil
}

// Activate swaps ix into the site's engine and marks the site ready.
func (s *searchService) Activate(ctx context.Context, site string, ix *index.Index) error {
	entry, err := s.site(site)
	if err != nil {
		return err
	}
	gen := entry.backend.Engine.Swap(ix)
	entry.ready.Store(true)

	contextutil.Logger(ctx, s.logger).InfoContext(ctx, "index activated", "site", entry.backend.Name, "generation", gen, "documents", ix.Len())
	return nil
}

// StartRebuild runs one rebuild per site at a time. The rebuild outlives the
// caller's context (an HTTP request) but keeps its values.
func (s *searchService) StartRebuild(ctx context.Context, site string) error {
	entry, err := s.site(site)
	if err != nil {
		return err
	}
	if entry.backend.Rebuilder == nil {
		return fmt.Errorf("site %q has no rebuilder: %w", entry.backend.Name, ErrNotFound)
	}
	if !entry.rebuilding.CompareAndSwap(false, true) {
		return WrapError(ErrRebuildInProgress, fmt.Sprintf("site %q", entry.backend.Name))
	}

	rebuildCtx := context.WithoutCancel(ctx)
	logger := contextutil.Logger(ctx, s.logger)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer entry.rebuilding.Store(false)

		ix, err := entry.backend.Rebuilder.Rebuild(rebuildCtx)
		if err != nil {
			logger.ErrorContext(rebuildCtx, "rebuild failed", "site", entry.backend.Name, "error", err)
			return
		}
		_ = s.Activate(rebuildCtx, entry.backend.Name, ix)
	}()

	logger.InfoContext(ctx, "rebuild started", "site", entry.backend.Name)
	return nil
}

// Status reports every site in configuration order.
func (s *searchService) Status(ctx context.Context) []SiteStatus {
	statuses := make([]SiteStatus, 0, len(s.order))
	for _, name := range s.order {
		entry := s.sites[name]
		status := SiteStatus{
			Name:       name,
			Ready:      entry.ready.Load(),
			Rebuilding: entry.rebuilding.Load(),
		}
		if status.Ready {
			status.Generation = entry.backend.Engine.Generation()
			status.Documents = entry.backend.Engine.Index().Len()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Wait blocks until background rebuilds started so far have finished.
func (s *searchService) Wait() {
	s.pending.Wait()
}
