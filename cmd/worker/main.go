package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rac-reallocation/internal/config"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/infrastructure/firebase"
	"github.com/rac-reallocation/internal/pkg/logger"
	"github.com/rac-reallocation/internal/repository/cache"
	redisRepo "github.com/rac-reallocation/internal/repository/redis"
	"github.com/rac-reallocation/internal/worker"
	"github.com/rac-reallocation/internal/worker/notification"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(logger.Options{
		Level:          cfg.Log.Level,
		FilePath:       cfg.Log.File,
		FileMaxSizeMB:  cfg.Log.FileMaxSizeMB,
		FileMaxBackups: cfg.Log.FileMaxBackups,
		FileMaxAgeDays: cfg.Log.FileMaxAgeDays,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Passenger Notification Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.NotifyMaxRetries),
		zap.Bool("firebase_enabled", cfg.Firebase.Enabled))

	// 3. Connect to Redis Streams
	streamClient, err := cache.NewRedisStreams(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}
	defer func() {
		if err := streamClient.Close(); err != nil {
			log.Error("Failed to close Redis Streams connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize notifier: FCM или только журнал
	var notifier repository.Notifier
	if cfg.Firebase.Enabled {
		fcm, err := firebase.NewNotifier(ctx, &cfg.Firebase, log)
		if err != nil {
			log.Fatal("Failed to initialize Firebase messaging", zap.Error(err))
		}
		notifier = fcm
	} else {
		log.Warn("Firebase disabled, notifications will only be logged")
		notifier = firebase.NewLogNotifier(log)
	}

	// 5. Initialize repositories and workers
	streamRepo := redisRepo.NewStreamRepository(streamClient, log)

	notificationWorker := notification.NewNotificationWorker(
		streamRepo,
		notifier,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.NotifyMaxRetries,
		log,
	)

	// 6. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(notificationWorker)

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Cancel context to stop workers
	cancel()

	// Stop worker manager
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
