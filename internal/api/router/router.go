package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/appointment-slots/internal/appointments"
	httpmiddleware "github.com/wolfman30/appointment-slots/internal/http/middleware"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SlotsHandler       *appointments.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter guards the suggestion route. Nil disables limiting.
	RateLimiter httpmiddleware.Limiter
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

	r.Get("/health", cfg.SlotsHandler.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/appointments", func(appts chi.Router) {
		if cfg.RateLimiter != nil {
			appts.Use(httpmiddleware.RateLimit(cfg.RateLimiter, cfg.Logger))
		}
		appts.Post("/suggestions", cfg.SlotsHandler.Suggest)
	})

	return r
}
