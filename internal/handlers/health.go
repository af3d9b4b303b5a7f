package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"docsearch/internal/contextutil"
	"docsearch/internal/service"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	searchService service.SearchService
	logger        *slog.Logger
	now           func() time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(searchService service.SearchService) *HealthHandler {
	return &HealthHandler{
		searchService: searchService,
		logger:        slog.Default(),
		now:           time.Now,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "starting"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Per-site check results: "ok", "rebuilding" or "loading"
	Checks map[string]string `json:"checks"`

	// Sites whose index is not loaded yet
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health.
// Returns 200 OK once every site serves an index, 503 while any is loading.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.Logger(ctx, h.logger)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	checks := make(map[string]string)
	var issues []string
	for _, site := range h.searchService.Status(ctx) {
		switch {
		case !site.Ready:
			checks[site.Name] = "loading"
			issues = append(issues, site.Name+"_index_loading")
		case site.Rebuilding:
			checks[site.Name] = "rebuilding"
		default:
			checks[site.Name] = "ok"
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "starting"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, logger, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
