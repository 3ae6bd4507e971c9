package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdata/api"
	"github.com/Domenick1991/flightdata/config"
	"github.com/Domenick1991/flightdata/internal/bootstrap"
	"github.com/Domenick1991/flightdata/internal/kafka"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/repository"
	"github.com/Domenick1991/flightdata/internal/service/flights"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A store that cannot be opened leaves the API up in unavailable mode.
	var repo repository.FlightRepository
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("database unavailable, serving errors")
	} else {
		defer store.Close()
		repo = repository.NewFlightRepository(store)
		logging.Info().Str("driver", cfg.Database.Driver).Msg("database connection established")
	}

	opts := []flights.FlightServiceOption{
		flights.WithBreaker(cfg.Query.BreakerFailures, time.Duration(cfg.Query.BreakerTimeoutSeconds)*time.Second),
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := producer.CheckConnection(ctx, cfg.Kafka.QueryEventsTopic); err != nil {
			logging.Warn().Err(err).Msg("kafka unreachable, query events may be dropped")
		}
		opts = append(opts, flights.WithAuditPublisher(producer, cfg.Kafka.QueryEventsTopic))
	}
	flightService := flights.NewFlightService(repo, cfg.Query.DelayThresholdMinutes, opts...)

	var routerOpts []api.RouterOption
	if cfg.Redis.Enabled() {
		usageStore := usage.NewRedisStore(cfg.Redis)
		defer usageStore.Close()
		routerOpts = append(routerOpts, api.WithStats(usage.NewRecorder(usageStore)))
	}

	if err := bootstrap.Run(ctx, cfg, flightService, routerOpts...); err != nil {
		logging.Fatal().Err(err).Msg("server error")
	}
}
