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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/socialboost/leads-api/internal/api/router"
	appconfig "github.com/socialboost/leads-api/internal/config"
	"github.com/socialboost/leads-api/internal/crm"
	"github.com/socialboost/leads-api/internal/crm/brevo"
	"github.com/socialboost/leads-api/internal/crm/hubspot"
	"github.com/socialboost/leads-api/internal/leads"
	"github.com/socialboost/leads-api/internal/notify"
	"github.com/socialboost/leads-api/internal/observability/metrics"
	"github.com/socialboost/leads-api/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leads API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Lead store: missing or unreadable file is expected on a fresh deploy.
	store := leads.NewFileStore(cfg.DataDir, logger)
	if err := store.Load(); err != nil {
		logger.Warn("could not read lead database, starting empty", "error", err)
	} else {
		logger.Info("lead database loaded", "count", store.Count())
	}
	if err := store.ExportCSV(); err != nil {
		logger.Warn("could not write CSV export", "error", err)
	}

	// CRM adapters activate only when their credential is present.
	var syncers []crm.Syncer
	hubspotClient := hubspot.NewClient(cfg.HubSpotAccessToken, cfg.HubSpotBaseURL, logger)
	if hubspotClient.Configured() {
		syncers = append(syncers, hubspotClient)
		logger.Info("hubspot client initialized")
	} else {
		logger.Info("hubspot not configured (missing HUBSPOT_ACCESS_TOKEN)")
	}
	brevoClient := brevo.NewClient(cfg.BrevoAPIKey, cfg.BrevoListID, cfg.BrevoBaseURL, logger)
	if brevoClient.Configured() {
		syncers = append(syncers, brevoClient)
		logger.Info("brevo client initialized")
	} else {
		logger.Info("brevo not configured (missing BREVO_API_KEY)")
	}

	// Owner notification email, also credential-gated.
	var notifier leads.Notifier
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		if n := notify.NewLeadNotifier(sender, cfg.LeadNotifyEmail, logger); n != nil {
			notifier = n
			logger.Info("lead notification email enabled", "to", cfg.LeadNotifyEmail)
		}
	}

	leadMetrics := metrics.NewLeadMetrics(prometheus.DefaultRegisterer)

	service := leads.NewService(store, leads.ServiceOptions{
		Syncers:     syncers,
		Notifier:    notifier,
		Metrics:     leadMetrics,
		SyncTimeout: cfg.SyncTimeout,
	}, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		LeadsHandler:       leads.NewHandler(service, logger),
		CORSAllowedOrigins: cfg.CORSOrigins,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		SubmitRate:         5,
		SubmitBurst:        10,
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Let in-flight CRM syncs finish before the process exits.
	service.Wait()

	logger.Info("server stopped")
}
