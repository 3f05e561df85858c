package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/eventsfp/booking-backend/internal/app"
	"github.com/eventsfp/booking-backend/internal/config"
	"github.com/eventsfp/booking-backend/internal/db"
	"github.com/eventsfp/booking-backend/internal/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	asynqRedis := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(asynqRedis)
	defer asynqClient.Close()

	container, err := app.NewContainer(app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		DBPool:            pool,
		RedisClient:       redisClient,
		AsynqClient:       asynqClient,
		Logger:            logger,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cfg.JWTAccessTokenTTL,
		BcryptCost:        cfg.BcryptCost,
		StorageBasePath:   cfg.StorageBasePath,
		PendingHoldWindow: cfg.PendingHoldWindow,
		CheckinTokenTTL:   cfg.CheckinTokenTTL,
		QRServiceURL:      cfg.QRServiceURL,
	})
	if err != nil {
		logger.Fatal("failed to init application", zap.Error(err))
	}

	// Notification worker
	asynqServer := asynq.NewServer(asynqRedis, asynq.Config{Concurrency: 5})
	go func() {
		if err := asynqServer.Run(container.Worker.Mux()); err != nil {
			logger.Fatal("notification worker error", zap.Error(err))
		}
	}()

	// Maintenance jobs
	container.Scheduler.Start()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced to shutdown", zap.Error(err))
	}

	container.Scheduler.Stop()
	asynqServer.Shutdown()

	logger.Info("server exited gracefully")
}
