package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/appointment-slots/cmd/mainconfig"
	"github.com/wolfman30/appointment-slots/internal/api/router"
	"github.com/wolfman30/appointment-slots/internal/appointments"
	appconfig "github.com/wolfman30/appointment-slots/internal/config"
	"github.com/wolfman30/appointment-slots/internal/observability/metrics"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment-slots API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"llm_model", mainconfig.ModelFor(cfg),
	)

	ctx := context.Background()
	client, closeClient, err := mainconfig.NewLLMClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to build completion client", "error", err)
		os.Exit(1)
	}
	defer closeClient()

	metricsHandler, suggestionMetrics := setupMetrics()
	service := mainconfig.BuildService(client, cfg, suggestionMetrics, logger)

	limiter, closeLimiter := mainconfig.BuildRateLimiter(ctx, cfg, logger)
	defer closeLimiter()

	r := router.New(&router.Config{
		Logger:             logger,
		SlotsHandler:       appointments.NewHandler(service, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	// WriteTimeout leaves headroom over a full completion call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
}

// setupMetrics registers the pipeline collectors on a dedicated registry
// alongside the Go and process collectors.
func setupMetrics() (http.Handler, *metrics.SuggestionMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewSuggestionMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}
