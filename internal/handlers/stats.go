package handlers

import (
	"log/slog"
	"net/http"

	"docsearch/internal/contextutil"
	"docsearch/internal/service"
)

// StatsHandler reports statistics of a site's active index.
type StatsHandler struct {
	searchService service.SearchService
	logger        *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(searchService service.SearchService) *StatsHandler {
	return &StatsHandler{
		searchService: searchService,
		logger:        slog.Default(),
	}
}

// ServeHTTP handles GET /api/stats?site=name. Without a site parameter the
// default site is reported under its configured name.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.Logger(ctx, h.logger)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.searchService.Stats(ctx, r.URL.Query().Get("site"))
	if err != nil {
		handleServiceError(ctx, logger, w, err, "Failed to compute index stats")
		return
	}

	writeJSON(ctx, logger, w, http.StatusOK, stats)
}
