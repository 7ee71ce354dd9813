package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmylchreest/bulbctl/internal/http/handlers"
	"github.com/jmylchreest/bulbctl/internal/http/mw"
)

// Handlers holds the handler implementations mounted by NewRouter
type Handlers struct {
	Metrics http.Handler
	Status  handlers.StatusSource
}

// NewRouter builds the exporter router. Rate limiting runs before any handler.
func NewRouter(logger *slog.Logger, h Handlers, limit mw.ScrapeLimit) *chi.Mux {
	router := chi.NewRouter()
	router.Use(mw.RequestLogging(logger))
	router.Use(mw.LimitScrapes(logger, limit))

	router.Get("/", handlers.Index)
	router.Method(http.MethodGet, "/metrics", h.Metrics)
	router.Get("/healthz", handlers.HealthCheck(h.Status))

	return router
}
