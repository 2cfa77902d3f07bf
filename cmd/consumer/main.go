package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/logger"
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

	if len(cfg.Kafka.Brokers) == 0 {
		lg.Fatal("KAFKA_BROKERS must be set")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, lg)
	defer func() {
		if err := consumer.Close(); err != nil {
			lg.Error("error closing kafka reader", zap.Error(err))
		}
	}()

	lg.Info("consumer connected",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("brokers", strings.Join(cfg.Kafka.Brokers, ",")),
		zap.String("group", cfg.Kafka.GroupID))

	if err := consumer.Run(ctx, kafka.LogStatusEvents(lg)); err != nil {
		lg.Error("consumer stopped with error", zap.Error(err))
	}
	lg.Info("consumer stopped")
}
