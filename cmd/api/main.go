package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/BruksfildServices01/booking-platform/internal/audit"
	"github.com/BruksfildServices01/booking-platform/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-platform/internal/db"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/routes"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	"github.com/BruksfildServices01/booking-platform/internal/validators"
)

func main() {

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("service", "booking-api")
	slog.SetDefault(logger)

	if err := validators.RegisterBindings(); err != nil {
		slog.Error("failed to register validators", "err", err)
		os.Exit(1)
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		slog.Error("failed to init database", "err", err)
		os.Exit(1)
	}

	// ======================================================
	// OTP store: Redis quando configurado, senão tabela otps
	// ======================================================
	var (
		rdb  *redis.Client
		otps otp.Store = otp.NewGormStore(db)
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err = rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			slog.Error("redis unreachable", "err", err)
			os.Exit(1)
		}
		otps = otp.NewRedisStore(rdb)
		slog.Info("otp store: redis")
	}

	// ======================================================
	// Notificações: Kafka quando configurado, senão log
	// ======================================================
	var notifier notify.Notifier = notify.LogNotifier{}
	var kafkaNotifier *notify.KafkaNotifier
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier = notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		notifier = kafkaNotifier
		slog.Info("notifier: kafka", "topic", cfg.KafkaTopic)
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))

	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Audit:    auditDispatcher,
		OTPs:     otps,
		Notifier: notifier,
		Clock:    timezone.NewSystemClock(cfg.BusinessTimezone),
		Redis:    rdb,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	// ======================================================
	// Shutdown
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown", "err", err)
	}

	auditDispatcher.Close()

	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			slog.Error("kafka close", "err", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
