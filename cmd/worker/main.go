package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/kafka"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/usage"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if !cfg.Kafka.Enabled() || !cfg.Redis.Enabled() {
		logging.Fatal().Msg("worker needs kafka.brokers, kafka.query_events_topic and redis.addr")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := usage.NewRedisStore(cfg.Redis)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		logging.Fatal().Err(err).Msg("connect redis")
	}
	recorder := usage.NewRecorder(store)
	log := logging.With("worker")

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.QueryEventsTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, recorder.Handle); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("consumer stopped")
			stop()
		}
	}()

	summaryTicker := time.NewTicker(time.Duration(cfg.Worker.SummaryIntervalMinutes) * time.Minute)
	defer summaryTicker.Stop()

	for {
		select {
		case <-summaryTicker.C:
			stats, err := recorder.Stats(ctx)
			if err != nil {
				log.Error().Err(err).Msg("read usage stats")
				continue
			}
			for _, s := range stats {
				log.Info().Str("query", s.Query).Int64("calls", s.Calls).Int64("rows", s.Rows).Int64("errors", s.Errors).Msg("query usage")
			}
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		}
	}
}
