package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/medrehab/clinic-concierge/cmd/mainconfig"
	"github.com/medrehab/clinic-concierge/internal/api/router"
	"github.com/medrehab/clinic-concierge/internal/booking"
	appconfig "github.com/medrehab/clinic-concierge/internal/config"
	"github.com/medrehab/clinic-concierge/internal/http/handlers"
	"github.com/medrehab/clinic-concierge/internal/juvonno"
	"github.com/medrehab/clinic-concierge/internal/locations"
	"github.com/medrehab/clinic-concierge/internal/notify"
	"github.com/medrehab/clinic-concierge/internal/observability/metrics"
	"github.com/medrehab/clinic-concierge/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics registry and handlers.
	var (
		metricsHandler http.Handler
		bookingMetrics *metrics.BookingMetrics
		locMetrics     *metrics.LocationMetrics
	)
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		bookingMetrics = metrics.NewBookingMetrics(registry)
		locMetrics = metrics.NewLocationMetrics(registry)
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	// Optional Redis cache for the clinic directory.
	var directoryCache *locations.Cache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		directoryCache = locations.NewCache(redis.NewClient(opts), cfg.DirectoryCacheTTL)
		logger.Info("directory cache enabled", "addr", cfg.RedisAddr)
	}

	// Juvonno clinic directory.
	juvonnoClient := juvonno.NewClient(juvonno.Config{
		APIKey:    cfg.JuvonnoAPIKey,
		Subdomain: cfg.JuvonnoSubdomain,
		BaseURL:   cfg.JuvonnoBaseURL,
		Timeout:   cfg.JuvonnoTimeout,
	}, logger)
	directory := juvonno.NewDirectoryAdapter(juvonnoClient)

	// Clinic directory snapshot, refreshed in the background.
	snapshot := locations.NewSnapshot()
	refresher, err := locations.NewRefresher(locations.RefresherConfig{
		Source:       directory,
		Cache:        directoryCache,
		Snapshot:     snapshot,
		Interval:     cfg.DirectoryRefreshInterval,
		FetchTimeout: cfg.JuvonnoTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to build directory refresher", "error", err)
		os.Exit(1)
	}
	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Start(refreshCtx)

	// Confirmation email provider.
	confirmations := notify.NewConfirmationService(buildEmailSender(cfg, logger), logger)

	orchestrator, err := booking.NewOrchestrator(booking.OrchestratorConfig{
		Directory:     directory,
		Confirmations: confirmations,
		CallTimeout:   cfg.JuvonnoTimeout,
		Logger:        logger,
		Metrics:       bookingMetrics,
	})
	if err != nil {
		logger.Error("failed to build booking orchestrator", "error", err)
		os.Exit(1)
	}

	tools := handlers.NewToolsHandler(snapshot, orchestrator, locMetrics, logger)
	r := router.New(&router.Config{
		Logger:             logger,
		HealthHandler:      handlers.NewHealthHandler(snapshot),
		ToolsHandler:       tools,
		MCPHandler:         handlers.NewMCPHandler(tools, logger),
		MetricsHandler:     metricsHandler,
		FunctionAuthToken:  cfg.FunctionAuthToken,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
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
	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildEmailSender picks the confirmation provider: sendgrid, ses, or the
// logging stub.
func buildEmailSender(cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, using stub sender")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Warn("failed to load AWS config, using stub sender", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
