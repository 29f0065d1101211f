package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labj86/calorie-tracker/internal/api"
	"github.com/labj86/calorie-tracker/internal/auth"
	"github.com/labj86/calorie-tracker/internal/config"
	"github.com/labj86/calorie-tracker/internal/domain"
	"github.com/labj86/calorie-tracker/internal/logger"
	"github.com/labj86/calorie-tracker/internal/outbox"
	"github.com/labj86/calorie-tracker/internal/persistence/memory"
	"github.com/labj86/calorie-tracker/internal/persistence/postgres"
	"github.com/labj86/calorie-tracker/internal/session"
	httptransport "github.com/labj86/calorie-tracker/internal/transport/http"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		repo       domain.Repository
		dispatcher *outbox.Dispatcher
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("failed to connect to postgres", "error", err)
		}
		defer pool.Close()

		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		repo = postgres.NewRepository(pool)
		dispatcher = outbox.NewDispatcher(pool, producer, log, cfg.OutboxPollInterval, cfg.OutboxBatchSize)
		go dispatcher.Start(ctx)
	default:
		log.Warn("using in-memory storage; activities are lost on restart")
		repo = memory.NewRepository()
	}

	sessions := session.NewManager(repo, log)
	defer sessions.Close()

	serverCfg := httptransport.ServerConfig{
		Address:        cfg.HTTPAddress,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}
	handler := httptransport.NewHandler(
		serverCfg,
		api.NewHandler(sessions, log),
		auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}),
		log,
	)
	server := httptransport.NewServer(serverCfg, handler)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("calorie tracker api listening", "address", cfg.HTTPAddress, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "error", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}
