package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"homeoracle/server/config"
	"homeoracle/server/internal/api"
	"homeoracle/server/internal/provider"
	"homeoracle/server/internal/scheduler"
	"homeoracle/server/internal/valuation"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(logger, cfg)

	sources, err := config.LoadSources(cfg.Valuation.SourcesFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load comparable sources")
	}
	logger.WithField("sources", config.GetSourceNames(sources)).Info("Loaded comparable sources")

	jitter := valuation.NewRandomJitter(nil)
	providers := provider.ForSources(cfg, sources, jitter, time.Now, logger)
	listings := provider.ForListings(cfg, jitter, time.Now, logger)

	strategy, err := valuation.NewStrategy(cfg.Valuation.Mode, providers, jitter, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to select estimate strategy")
	}

	composer := valuation.NewComposer(sources, strategy, valuation.MultiSourcePreset, logger)
	service := valuation.NewService(composer, valuation.ServiceOptions{
		Window: valuation.Window{
			HistoricalYears: cfg.Valuation.HistoricalYears,
			ProjectionYears: cfg.Valuation.ProjectionYears,
		},
		Jitter:   jitter,
		Listings: listings,
	}, logger)

	handler := api.NewHandler(service, cfg.Valuation.DiscountRate, cfg.Provider.Timeout, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, handler, cfg.Server.AllowedOrigins)

	cached := []provider.Provider{listings}
	for _, p := range providers {
		cached = append(cached, p)
	}
	tasks := scheduler.NewScheduler(logger, scheduler.Task{
		Name:     "purge-listing-cache",
		Interval: cfg.Provider.CacheTTL,
		Run: func() {
			if n := provider.PurgeCaches(cached...); n > 0 {
				logger.WithField("listings", n).Info("Purged listing cache")
			}
		},
	})
	tasks.Start()
	defer tasks.Stop()

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		logger.Info("Shutdown signal received, cleaning up...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"mode":     cfg.Valuation.Mode,
		"provider": cfg.Provider.Kind,
	}).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Server failed to start")
	}
	<-shutdownDone
	logger.Info("Server stopped")
}

func configureLogger(logger *logrus.Logger, cfg *config.Config) {
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
