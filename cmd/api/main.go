package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gamehouse/internal/cache"
	"gamehouse/internal/config"
	"gamehouse/internal/database"
	"gamehouse/internal/events"
	"gamehouse/internal/games"
	"gamehouse/internal/metrics"
	"gamehouse/internal/round"
	"gamehouse/internal/server"
	"gamehouse/internal/settle"
	"gamehouse/internal/wallet"
)

func main() {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db := database.New()
	cacheSvc := cache.New()

	var openRounds *round.Cache
	if cacheSvc != nil {
		openRounds = round.NewCache(cacheSvc.GetClient(), cfg.CacheTTL)
	}

	ledger := wallet.NewPostgres(db.Pool())
	rounds := round.NewPostgres(db.Pool())
	registry := games.NewRegistry()

	hub := server.NewHub()

	publishers := []events.Publisher{hub}
	var kafkaPublisher *events.Kafka
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		publishers = append(publishers, kafkaPublisher)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher enabled")
	}

	engine := settle.NewEngine(ledger, rounds, openRounds, registry, events.Multi(publishers), cfg.MinBet)

	srv := server.New(engine, ledger, db, cacheSvc, hub)
	srv.RegisterFiberRoutes()

	metricsSrv := metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		return db.Pool().Ping(ctx)
	})

	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("gamehouse listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("metrics server shutdown failed")
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("kafka close failed")
		}
	}
	if err := srv.Shutdown(); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
