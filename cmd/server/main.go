package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"optibill-backend/internal/cache"
	"optibill-backend/internal/config"
	"optibill-backend/internal/database"
	"optibill-backend/internal/httpapi"
	"optibill-backend/internal/kafka"
	"optibill-backend/internal/observability"
	"optibill-backend/internal/pkg/breaker"
	"optibill-backend/internal/pkg/retry"
	"optibill-backend/internal/service"

	"cloud.google.com/go/firestore"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}
	defer pool.Close()

	repo := database.New(pool, cfg.Tables)
	if err := repo.Bootstrap(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	backend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("cache backend init failed", zap.Error(err))
	}
	backend = cache.WithBreaker(backend, breaker.New(
		cfg.Breaker.Threshold,
		cfg.Breaker.OpenTimeout,
		cfg.Breaker.MaxHalfOpen,
	))

	metrics := observability.NewInmem(256)

	var events service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, 1, 1, logger); err != nil {
			logger.Fatal("kafka topic setup failed", zap.Error(err))
		}

		pub := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		defer func() { _ = pub.Close() }()
		events = pub

		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.Group,
		})
		defer func() { _ = reader.Close() }()
		go kafka.NewConsumer(reader, backend, logger).Start(ctx)
	}

	svc := service.New(repo, backend, logger, metrics, service.Options{
		TTL:          cfg.Cache.TTL,
		CacheTimeout: cfg.Cache.Timeout,
		CreateRetry: retry.Policy{
			Attempts:     cfg.Retry.Attempts,
			Base:         cfg.Retry.Base,
			Max:          cfg.Retry.Max,
			JitterFactor: cfg.Retry.JitterFactor,
		},
		Events: events,
	})

	server := httpapi.New(svc, cfg.JWTSecret, logger, metrics)

	logger.Info("server listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("cache_backend", cfg.Cache.Backend),
	)
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}

func buildBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (cache.Backend, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return nil, err
		}
		return cache.NewFirestore(client, cache.FirestoreConfig{
			ProjectID:  cfg.Firestore.ProjectID,
			Collection: cfg.Firestore.Collection,
		}, logger)
	default:
		return cache.NewMemory(cfg.Cache.Capacity, cfg.Cache.TTL), nil
	}
}
