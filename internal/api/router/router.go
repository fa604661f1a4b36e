package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/socialboost/leads-api/internal/http/middleware"
	"github.com/socialboost/leads-api/internal/leads"
	"github.com/socialboost/leads-api/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger       *logging.Logger
	LeadsHandler *leads.Handler

	CORSAllowedOrigins []string

	// AdminAuthSecret guards the list/get/delete endpoints when set.
	// Absent, they stay open as the public form's companion admin API.
	AdminAuthSecret string

	// MetricsHandler serves /metrics when set (promhttp).
	MetricsHandler http.Handler

	// SubmitRate limits POST /api/leads per IP; zero disables rate limiting.
	SubmitRate  float64
	SubmitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.NotFound(leads.NotFound)
	r.MethodNotAllowed(leads.NotFound)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", cfg.LeadsHandler.Health)
		api.Get("/stats", cfg.LeadsHandler.GetStats)

		api.Route("/leads", func(lr chi.Router) {
			if cfg.SubmitRate > 0 {
				lr.With(httpmiddleware.RateLimit(cfg.SubmitRate, cfg.SubmitBurst)).Post("/", cfg.LeadsHandler.Create)
			} else {
				lr.Post("/", cfg.LeadsHandler.Create)
			}

			lr.Group(func(admin chi.Router) {
				if cfg.AdminAuthSecret != "" {
					admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
				}
				admin.Get("/", cfg.LeadsHandler.List)
				admin.Get("/{id}", cfg.LeadsHandler.Get)
				admin.Delete("/{id}", cfg.LeadsHandler.Delete)
			})
		})
	})

	return r
}
