package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/config"
	"github.com/pongclub/rally/internal/database"
	server "github.com/pongclub/rally/internal/http"
	"github.com/pongclub/rally/internal/metrics"
	"github.com/pongclub/rally/internal/notifier"
	"github.com/pongclub/rally/internal/notifier/slack"
	"github.com/pongclub/rally/internal/pubsub"
	"github.com/pongclub/rally/internal/replay"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	coordinator := replay.New(clubStore, metricsSvc)

	// Slack and Pub/Sub are optional; without them results are not announced
	// and replays run in-process.
	var resultNotifier notifier.Notifier
	if cfg.Slack.Token != "" {
		resultNotifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack token not configured, result notifications disabled")
	}
	var pubsubClient pubsub.PubSubClient
	if cfg.PubSub.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.PubSub.ProjectID)
	} else {
		log.Warn("Pub/Sub project not configured, replays run in-process")
	}

	s := server.NewServer(
		clubStore,
		metricsSvc,
		metricsHandler,
		cfg,
		resultNotifier,
		coordinator,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
