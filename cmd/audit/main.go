package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/invtrack/go-inventory-ledger/internal/audit"
	"github.com/invtrack/go-inventory-ledger/internal/config"
	kafkax "github.com/invtrack/go-inventory-ledger/internal/kafka"
	"github.com/invtrack/go-inventory-ledger/internal/ledger"
	"github.com/invtrack/go-inventory-ledger/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	rec := &audit.Recorder{
		Redis:       rdb,
		Logger:      logger,
		ServiceName: cfg.ServiceName + "-audit",
	}

	group := getenv("AUDIT_GROUP", "audit-svc")
	workers := mustAtoi(os.Getenv("AUDIT_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, ledger.TopicTransactionRecorded, workers, logger)

	go func() {
		logger.Info("audit consumer started",
			zap.String("group", group),
			zap.String("topic", ledger.TopicTransactionRecorded),
			zap.Int("workers", workers),
		)
		if err := cons.Start(ctx, rec.HandleRecorded); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down consumer")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
