package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/feelitbuy/internal/config"
	"github.com/ariefcatur/feelitbuy/internal/invalidation"
	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/logging"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("cache-invalidator", "info", false)
		boot.Fatal().Err(err).Msg("config")
	}
	name := cfg.ServiceName + "-invalidator"
	log := logging.New(name, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)

	svc := &invalidation.Service{
		Redis:       rdb,
		ServiceName: name,
		Log:         log,
	}

	// Consumer: one shared group, so each change is handled once per fleet.
	cons := kafkax.NewConsumer(kafkax.ConsumerConfig{
		Brokers: cfg.KafkaBrokers(),
		Group:   cfg.InvalidatorGroup,
		Topic:   orders.TopicOrderChanged,
		Workers: cfg.InvalidatorWorkers,
	}, log)

	runErr := cons.Start(ctx, svc.HandleOrderChanged)
	log.Info().Msg("consumer stopped")
	if err := multierr.Append(runErr, rdb.Close()); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}
