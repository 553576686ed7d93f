package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mapleleads/directory-web/internal/api/handlers"
)

// Router sets up all API routes
type Router struct {
	search   *handlers.SearchHandler
	renewal  *handlers.RenewalHandler
	settings *handlers.SettingsHandler
	logger   *slog.Logger
}

// NewRouter creates a new Router
func NewRouter(
	search *handlers.SearchHandler,
	renewal *handlers.RenewalHandler,
	settings *handlers.SettingsHandler,
	logger *slog.Logger,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		search:   search,
		renewal:  renewal,
		settings: settings,
		logger:   logger,
	}
}

// Setup configures all routes
func (rt *Router) Setup(token string) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(rt.logger))
	r.Use(RequestLogger(rt.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key", "X-Session-ID"},
		MaxAge:         86400,
	}))
	r.Use(SecurityHeaders)

	r.Get("/api/v1/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(Auth(token))

		r.Get("/api/v1/search", rt.search.Search)
		r.Get("/api/v1/search/export", rt.search.Export)
		r.Get("/api/v1/industries", rt.search.Industries)
		r.Get("/api/v1/cities", rt.search.Cities)

		r.Get("/api/v1/settings", rt.settings.Get)
		r.Put("/api/v1/settings", rt.settings.Put)

		r.Post("/api/v1/renewal/input", rt.renewal.Input)
		r.Get("/api/v1/renewal/state", rt.renewal.State)
		r.Get("/api/v1/renewal/plans", rt.renewal.Plans)
	})

	return r
}
