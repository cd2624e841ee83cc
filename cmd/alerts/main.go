package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/weather-alerts-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-alerts-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-alerts-service/internal/aggregator"
	"github.com/couchcryptid/weather-alerts-service/internal/config"
	"github.com/couchcryptid/weather-alerts-service/internal/fetch"
	"github.com/couchcryptid/weather-alerts-service/internal/observability"
	"github.com/couchcryptid/weather-alerts-service/internal/provider/metoffice"
	"github.com/couchcryptid/weather-alerts-service/internal/provider/openmeteo"
	"github.com/couchcryptid/weather-alerts-service/internal/provider/regionfeed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// One shared rate-limited client; the regional feed additionally goes
	// through a TTL cache because its provider throttles frequent pollers.
	limiter := rate.NewLimiter(rate.Every(200*time.Millisecond), 1)
	client := fetch.NewClient(limiter, logger)
	cachedClient := fetch.NewCachedFetcher(client, cfg.FeedCacheSize, cfg.FeedCacheTTL, nil)

	forecastClient := openmeteo.NewClient(client, logger)
	regionClient := regionfeed.NewClient(cachedClient, logger)
	structuredClient := metoffice.NewClient(client, cfg.MetOfficeAPIKey, logger)

	chain := aggregator.BuildChain(
		cfg.Latitude, cfg.Longitude, cfg.MetOfficeAPIKey != "",
		regionClient, structuredClient, forecastClient,
	)
	agg := aggregator.New(forecastClient, chain, logger, metrics)

	var publisher aggregator.Publisher
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaWriter
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}

	loc := aggregator.Location{
		Latitude:     cfg.Latitude,
		Longitude:    cfg.Longitude,
		Label:        cfg.Location,
		Units:        cfg.Units,
		ForecastDays: cfg.ForecastDays,
	}
	runner := aggregator.NewRunner(agg, loc, cfg.RefreshInterval, publisher, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("runner error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
