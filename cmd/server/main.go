package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shopeasy/product-store/internal/api"
	"github.com/shopeasy/product-store/internal/core/ports"
	"github.com/shopeasy/product-store/internal/events"
	"github.com/shopeasy/product-store/internal/infrastructure/config"
	mongodb "github.com/shopeasy/product-store/internal/infrastructure/db/mongo"
	redisdb "github.com/shopeasy/product-store/internal/infrastructure/db/redis"
	"github.com/shopeasy/product-store/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	// Connect once at startup; a store that cannot be reached is fatal.
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := mongodb.NewProductRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("product indexes failed")
	}
	if err := mongodb.NewAuthRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}

	var publisher ports.EventPublisher
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		producer := events.NewProducer(brokers, cfg.Kafka.Topic)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Error().Err(err).Msg("kafka producer close failed")
			}
		}()
		publisher = producer
		log.Info().Strs("brokers", brokers).Str("topic", cfg.Kafka.Topic).Msg("event publishing enabled")
	}

	e := api.NewRouter(db, rdb, publisher, cfg.JWTSecret, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
