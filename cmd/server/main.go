package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/auth"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/ratelimit"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository/memory"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/service"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/status"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/tracking"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init error: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped with error", zap.Error(err))
	}
	lg.Info("server gracefully stopped")
}

type backend struct {
	db        storage.Transactor
	shipments storage.ShipmentRepository
	logs      storage.StatusLogRepository
	outbox    storage.OutboxTaskRepository
	quotes    storage.QuoteRepository
	users     storage.UserRepository
	close     func()
}

func openBackend(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*backend, error) {
	if cfg.StorageDriver == config.DriverMemory {
		lg.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &backend{
			db:        store,
			shipments: store.Shipments(),
			logs:      store.StatusLogs(),
			outbox:    store.Outbox(),
			quotes:    memory.NewQuoteRepo(),
			users:     memory.NewUserRepo(),
			close:     func() {},
		}, nil
	}

	database, err := db.NewDb(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	lg.Info("connected to postgres", zap.String("host", cfg.DB.Host), zap.String("db", cfg.DB.Name))
	return &backend{
		db:        database,
		shipments: postgresql.NewShipmentRepo(database),
		logs:      postgresql.NewStatusLogRepo(database),
		outbox:    postgresql.NewOutboxTaskRepo(database),
		quotes:    postgresql.NewQuoteRepo(database),
		users:     postgresql.NewUserRepo(database),
		close:     database.Close,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	be, err := openBackend(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer be.close()

	if err := auth.EnsureAdmin(ctx, be.users, cfg.AdminUsername, cfg.AdminPassword, lg); err != nil {
		return err
	}

	shipmentPolicy, quotePolicy := status.Permissive, status.Permissive
	if cfg.StrictTransitions {
		shipmentPolicy = status.Strict
	}
	if cfg.StrictQuoteProgression {
		quotePolicy = status.Strict
	}
	lg.Info("transition policies",
		zap.Stringer("shipments", shipmentPolicy),
		zap.Stringer("quotes", quotePolicy))

	ledger := storage.NewLedger(be.db, be.shipments, be.logs, be.outbox,
		storage.WithPolicy(shipmentPolicy),
		storage.WithEventsTopic(cfg.Kafka.Topic))
	book := storage.NewQuoteBook(be.quotes, quotePolicy)

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	viewCache := cache.NewShipmentCache(cfg.ViewCacheTTL)

	gateOpts := []auth.GateOption{auth.WithVerifier("Basic", auth.NewBasicVerifier(be.users))}
	if cfg.JWTSecret != "" {
		gateOpts = append(gateOpts, auth.WithVerifier("Bearer", auth.NewJWTVerifier([]byte(cfg.JWTSecret))))
	} else {
		lg.Info("JWT_SECRET not set, bearer tokens are disabled")
	}
	gate := auth.NewGate(cfg.IdentityTimeout, lg.With(zap.String("component", "gate")), gateOpts...)

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewKafkaProducer(cfg.Kafka.Brokers)
	} else {
		lg.Info("KAFKA_BROKERS not set, status events are written to the log")
		producer = kafka.NewLogProducer(lg)
	}
	publisher := kafka.NewPublisher(be.db, be.outbox, producer, kafka.PublisherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
	}, lg.With(zap.String("component", "outbox")))

	srv := server.New(
		service.NewTrackingService(ledger, limiter, viewCache, cfg.StoreTimeout, lg),
		service.NewQuoteService(book, limiter, cfg.StoreTimeout, lg),
		service.NewAdminService(ledger, book, viewCache, tracking.NewGenerator(cfg.TrackingPrefix), cfg.StoreTimeout, lg),
		gate,
		cfg.CORSAllowOrigin,
		lg,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(gctx, cfg.HTTPPort); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return publisher.Run(gctx)
	})
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		purgeViewCache(gctx, viewCache, cfg.ViewCacheTTL)
		return nil
	})

	err = g.Wait()
	publisher.Shutdown(5 * time.Second)
	return err
}

func purgeViewCache(ctx context.Context, c *cache.ShipmentCache, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(max(ttl, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Purge()
		case <-ctx.Done():
			return
		}
	}
}
