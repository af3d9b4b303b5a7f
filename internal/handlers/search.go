package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"docsearch/internal/contextutil"
	"docsearch/internal/search"
	"docsearch/internal/service"
)

// maxRequestBytes bounds request bodies.
const maxRequestBytes = 64 << 10

// SearchHandler handles HTTP requests for search queries.
type SearchHandler struct {
	searchService service.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        slog.Default(),
	}
}

// SearchRequest represents the HTTP request payload for search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
	Site  string `json:"site,omitempty"`
}

// SearchResponse represents the HTTP response payload for search.
type SearchResponse struct {
	Site    string          `json:"site"`
	Results []search.Result `json:"results"`
}

// ServeHTTP handles POST /api/search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.Logger(ctx, h.logger)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Convert HTTP request to service request
	svcResp, err := h.searchService.Search(ctx, service.SearchRequest{
		Site:  req.Site,
		Query: req.Query,
		TopK:  req.TopK,
	})
	if err != nil {
		handleServiceError(ctx, logger, w, err, "Failed to process search request")
		return
	}

	results := svcResp.Results
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(ctx, logger, w, http.StatusOK, SearchResponse{
		Site:    svcResp.Site,
		Results: results,
	})
}
