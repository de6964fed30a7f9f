package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lojatech/precifica/internal/catalog"
	"github.com/lojatech/precifica/internal/config"
	"github.com/lojatech/precifica/internal/event"
	"github.com/lojatech/precifica/internal/http"
	"github.com/lojatech/precifica/internal/log"
	"github.com/lojatech/precifica/internal/relay"
	"github.com/lojatech/precifica/internal/repository"
	"github.com/lojatech/precifica/internal/search"
	"github.com/lojatech/precifica/internal/service"
	"github.com/lojatech/precifica/internal/storage/cache"
	"github.com/lojatech/precifica/internal/storage/db"
	"github.com/lojatech/precifica/internal/storage/mq"
	"github.com/lojatech/precifica/internal/telemetry"
	"github.com/lojatech/precifica/pkg/cmdutil"
	"github.com/lojatech/precifica/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Redis    config.Redis
		HTTP     config.HTTP
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
		Feed     config.Feed
		Search   config.Search
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	cacheClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("error creating redis client: %w", err)
	}
	defer cacheClient.Close()

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	validate, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	marginRuleRepository := repository.NewMarginRuleRepository(dbClient)
	snapshotRepository := repository.NewSnapshotRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	feedClient := catalog.NewCachedClient(
		catalog.NewHTTPClient(cfg.Feed, logger),
		cacheClient,
		cfg.Feed.CacheTTL,
		logger,
	)

	pricingService := service.NewPricingService(dbClient, feedClient, marginRuleRepository, snapshotRepository, outboxMsgRepository, logger)
	marginService := service.NewMarginService(marginRuleRepository)
	searchService := service.NewSearchService(feedClient, search.NewRecentStore(cacheClient, cfg.Search), cfg.Search)

	healthHandler := http.NewHealthHandler(dbClient, cacheClient)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, validate, pricingService, marginService, searchService, healthHandler)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}
