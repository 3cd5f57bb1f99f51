package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/invtrack/go-inventory-ledger/internal/config"
	"github.com/invtrack/go-inventory-ledger/internal/dashboard"
	"github.com/invtrack/go-inventory-ledger/internal/httpx"
	"github.com/invtrack/go-inventory-ledger/internal/inventory"
	kafkax "github.com/invtrack/go-inventory-ledger/internal/kafka"
	"github.com/invtrack/go-inventory-ledger/internal/ledger"
	"github.com/invtrack/go-inventory-ledger/internal/postgres"
	"github.com/invtrack/go-inventory-ledger/internal/redisx"
	"github.com/invtrack/go-inventory-ledger/internal/users"
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

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for the audit event stream
	prod := kafkax.NewProducer(cfg.KafkaBrokers, ledger.TopicTransactionRecorded, 1024, logger)
	prod.Start(ctx)

	// Services
	userRepo := &users.Repo{DB: db}
	itemRepo := &inventory.Repo{DB: db}
	ledgerStore := &ledger.PGStore{DB: db}

	sessions := &httpx.Sessions{Redis: rdb, Users: userRepo}
	itemSvc := inventory.NewService(itemRepo, logger)
	processor := ledger.NewProcessor(ledgerStore, logger)
	dashSvc := dashboard.NewService(itemRepo, ledgerStore)

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.AuthHandler{Users: userRepo, Sessions: sessions, Logger: logger}).Register(router)
	(&httpx.ItemsHandler{Service: itemSvc, Sessions: sessions}).Register(router)
	(&httpx.TransactionsHandler{
		Processor: processor,
		Store:     ledgerStore,
		Items:     itemSvc,
		Producer:  prod,
		Sessions:  sessions,
		Service:   cfg.ServiceName,
	}).Register(router)
	(&httpx.DashboardHandler{Service: dashSvc, Redis: rdb, Sessions: sessions}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	cancel()
	prod.WaitClosed()
}
