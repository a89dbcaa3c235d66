package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/feelitbuy/internal/admin"
	"github.com/ariefcatur/feelitbuy/internal/cart"
	"github.com/ariefcatur/feelitbuy/internal/catalog"
	"github.com/ariefcatur/feelitbuy/internal/config"
	"github.com/ariefcatur/feelitbuy/internal/httpx"
	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/logging"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/postgres"
	"github.com/ariefcatur/feelitbuy/internal/profiles"
	"github.com/ariefcatur/feelitbuy/internal/realtime"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/ariefcatur/feelitbuy/internal/session"
	"github.com/ariefcatur/feelitbuy/internal/wishlist"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("storefront-api", "info", false)
		boot.Fatal().Err(err).Msg("config")
	}
	log := logging.New(cfg.ServiceName, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName, cfg.PostgresMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	cache := &redisx.Cache{RDB: rdb}

	// Kafka producer. Closed explicitly during shutdown so queued events flush.
	prod := kafkax.NewProducer(cfg.KafkaBrokers(), orders.TopicOrderChanged, 1024, log)
	prod.Start(context.Background())

	// Services
	catalogRepo := &catalog.Repo{DB: db}
	orderSvc := &orders.Service{
		Store:       &orders.Repo{DB: db},
		Cache:       cache,
		Events:      prod,
		ServiceName: cfg.ServiceName,
		Log:         log.With().Str("component", "orders").Logger(),
	}
	hub := realtime.NewHub(64, log.With().Str("component", "realtime").Logger())
	origins := cfg.AllowedOrigins()

	cartSvc := &cart.Service{
		Store: &cart.Repo{DB: db},
		Cache: cache,
		Log:   log.With().Str("component", "cart").Logger(),
	}
	wishlistSvc := &wishlist.Service{
		Store: &wishlist.Repo{DB: db},
		Cache: cache,
		Log:   log.With().Str("component", "wishlist").Logger(),
	}
	adminSvc := &admin.Service{
		Store:   &admin.Repo{DB: db},
		Catalog: catalogRepo,
		Updater: orderSvc,
		Cache:   cache,
		Loc:     cfg.TrendLocation(),
		Log:     log.With().Str("component", "admin").Logger(),
	}

	api := &httpx.API{
		Auth:            session.NewVerifier(cfg.JWTSecret, rdb),
		Catalog:         &catalog.Service{Store: catalogRepo, Cache: cache},
		Cart:            cartSvc,
		Wishlist:        wishlistSvc,
		Orders:          orderSvc,
		Admin:           adminSvc,
		Profiles:        &profiles.Repo{DB: db},
		Feed:            realtime.NewServer(hub, origins, log),
		InvoiceLocation: cfg.TrendLocation(),
	}
	router := httpx.NewRouter(log, origins)
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// Every instance reads the change topic in its own group so each one
	// sees every event for its websocket subscribers.
	feed := kafkax.NewConsumer(kafkax.ConsumerConfig{
		Brokers:    cfg.KafkaBrokers(),
		Group:      cfg.ServiceName + "-realtime-" + uuid.NewString(),
		Topic:      orders.TopicOrderChanged,
		Workers:    1,
		FromLatest: true,
	}, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return feed.Start(gctx, hub.HandleOrderChanged)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		hub.Close()
		prod.Close()
		prod.WaitClosed()
		return multierr.Append(err, rdb.Close())
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}
