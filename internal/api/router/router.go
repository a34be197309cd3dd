package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpmiddleware "github.com/wolfman30/coaching-intake/internal/http/middleware"
	"github.com/wolfman30/coaching-intake/internal/intake"
	"github.com/wolfman30/coaching-intake/internal/leads"
	"github.com/wolfman30/coaching-intake/internal/observability/metrics"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger        *logging.Logger
	IntakeHandler *intake.Handler
	LeadsHandler  *leads.Handler

	// MetricsHandler serves /metrics; Gatherer backs /admin/stats.
	MetricsHandler http.Handler
	Gatherer       prometheus.Gatherer

	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
	AdminJWTSecret     string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.IntakeHandler != nil {
		r.Group(func(public chi.Router) {
			if cfg.RateLimiter != nil {
				public.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
			}
			public.Mount("/intake", cfg.IntakeHandler.Routes())
		})
	}

	// Admin routes are only mounted when a signing secret is configured.
	if cfg.AdminJWTSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			if cfg.LeadsHandler != nil {
				admin.Mount("/leads", cfg.LeadsHandler.Routes())
			}
			admin.Get("/stats", stats(cfg.Gatherer))
		})
	}

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func stats(gatherer prometheus.Gatherer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot(gatherer))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
