package handlers

import (
	"log/slog"
	"net/http"

	"docsearch/internal/contextutil"
	"docsearch/internal/service"
)

// IndexHandler handles HTTP requests for triggering a rebuild.
type IndexHandler struct {
	searchService service.SearchService
	logger        *slog.Logger
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(searchService service.SearchService) *IndexHandler {
	return &IndexHandler{
		searchService: searchService,
		logger:        slog.Default(),
	}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/index?site=name. The full rebuild runs in the
// background; the new index replaces the served one when it completes.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.Logger(ctx, h.logger)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	site := r.URL.Query().Get("site")
	if err := h.searchService.StartRebuild(ctx, site); err != nil {
		handleServiceError(ctx, logger, w, err, "Failed to start rebuild")
		return
	}

	logger.InfoContext(ctx, "rebuild triggered via API", "site", site)
	writeJSON(ctx, logger, w, http.StatusAccepted, IndexResponse{
		Message: "Rebuild started. Check server logs for progress.",
		Status:  "accepted",
	})
}
