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

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"

	listingapp "gharbazaar/internal/app/handlers/listings"
	"gharbazaar/internal/domain/listing"
	"gharbazaar/internal/geo"
	"gharbazaar/internal/infra/broker/kafka"
	"gharbazaar/internal/infra/config"
	mongodb "gharbazaar/internal/infra/db/mongo"
	ginserver "gharbazaar/internal/infra/http/gin"
	"gharbazaar/internal/infra/obs"
	"gharbazaar/internal/infra/storage/memory"
	"gharbazaar/internal/infra/storage/s3"
	"gharbazaar/internal/infra/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	repo, closeStorage, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()

	uploader := buildUploader(cfg, logger)
	resolver := buildResolver(cfg, logger)

	ownerApp := &listingapp.OwnerHandler{Repo: repo, Notifier: notifier, Uploader: uploader, Logger: logger}
	adminApp := &listingapp.AdminHandler{Repo: repo, Notifier: notifier, Logger: logger}
	searchApp := &listingapp.SearchHandler{Repo: repo, Resolver: resolver}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: func() error { return nil },
	}, ginserver.Handlers{
		Listing:      ginserver.ListingHandler{App: searchApp},
		OwnerListing: ginserver.OwnerListingHandler{App: ownerApp, Logger: logger},
		AdminListing: ginserver.AdminListingHandler{App: adminApp, Logger: logger},
	})

	premiumSweep := sweep.New(repo, cfg.SweepSchedule, logger)
	if err := premiumSweep.Start(ctx); err != nil {
		logger.Error("premium sweep start failed", "error", err)
		os.Exit(1)
	}
	defer premiumSweep.Stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (listing.Repository, func(), error) {
	if cfg.Storage == "memory" {
		logger.Info("using in-memory storage")
		return memory.NewListingRepository(), func() {}, nil
	}

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		return nil, nil, err
	}

	repo := mongodb.NewListingRepository(client.DB)
	indexCtx, cancelIdx := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIdx()
	if err := repo.EnsureIndexes(indexCtx); err != nil {
		logger.Warn("index creation failed", "error", err)
	}

	closeFn := func() {
		closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelClose()
		if err := client.Close(closeCtx); err != nil {
			logger.Error("mongo disconnect failed", "error", err)
		}
	}
	return repo, closeFn, nil
}

func buildNotifier(cfg config.Config, logger *slog.Logger) (listingapp.Notifier, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers not configured, listing events disabled")
		return nil, func() {}
	}
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, saramaCfg)
	if err != nil {
		logger.Warn("kafka producer init failed, listing events disabled", "error", err)
		return nil, func() {}
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", "error", err)
		}
	}
	return kafka.NewNotifier(producer, cfg.KafkaTopic, logger), closeFn
}

func buildUploader(cfg config.Config, logger *slog.Logger) s3.Uploader {
	client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage init failed, photo uploads disabled", "error", err)
		return s3.NoopUploader{}
	}
	return client
}

func buildResolver(cfg config.Config, logger *slog.Logger) *geo.Resolver {
	var opts []geo.NominatimOption
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		opts = append(opts, geo.WithCache(rdb, cfg.GeocodeCacheTTL))
		logger.Info("geocode cache enabled", "addr", cfg.RedisAddr)
	}
	geocoder := geo.NewNominatimClient(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent, cfg.GeocodeTimeout, logger, opts...)
	return geo.NewResolver(geocoder, logger)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
