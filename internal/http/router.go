package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docsearch/internal/handlers"
	"docsearch/internal/service"
)

// requestTimeout bounds a single request; rebuilds run in the background.
const requestTimeout = 30 * time.Second

// Deps holds dependencies for the HTTP router.
type Deps struct {
	SearchService service.SearchService
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Add CORS middleware
	r.Use(CORS)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/search", handlers.NewSearchHandler(deps.SearchService))
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.SearchService))
		r.Method(http.MethodGet, "/stats", handlers.NewStatsHandler(deps.SearchService))
		r.Method(http.MethodPost, "/index", handlers.NewIndexHandler(deps.SearchService))
	})

	return r
}
