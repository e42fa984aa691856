package main

// @title RAC Reallocation API
// @version 1.0.0
// @description Сервис перераспределения полок RAC в движущемся поезде. Ведёт сессию поезда по станциям маршрута, освобождает полки сошедших и неявившихся пассажиров и отдаёт их пассажирам RAC по очереди.
// @description
// @description Основные возможности:
// @description - Загрузка состава из MongoDB или CSV и ведение поезда по станциям
// @description - Автоматическое перераспределение (AUTO) или предложения на подтверждение TTE (APPROVAL)
// @description - Отметка неявки и её отмена в пределах окна
// @description - Матрица допустимости, очередь RAC, занятость полок по перегонам

// @contact.name API Support
// @contact.email support@rac-reallocation.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rac-reallocation/docs"
	"github.com/rac-reallocation/internal/config"
	httpDelivery "github.com/rac-reallocation/internal/delivery/http"
	"github.com/rac-reallocation/internal/delivery/http/handler"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/logger"
	"github.com/rac-reallocation/internal/repository/cache"
	"github.com/rac-reallocation/internal/repository/csvroster"
	"github.com/rac-reallocation/internal/repository/mongo"
	"github.com/rac-reallocation/internal/repository/postgres"
	redisRepo "github.com/rac-reallocation/internal/repository/redis"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
	"github.com/rac-reallocation/internal/worker"
	"github.com/rac-reallocation/internal/worker/reallocation"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
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

	log.Info("Starting RAC Reallocation Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("mode", cfg.Engine.Mode),
		zap.Bool("database_enabled", cfg.Database.Enabled),
	)

	// 3. Connect to MongoDB (roster source)
	mongoClient, err := mongo.New(&cfg.Mongo, log)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	streamClient, err := cache.NewRedisStreams(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}

	// 5. Connect to PostgreSQL (snapshots and decision audit), optional
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
	}

	// 6. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := mongoClient.Health(ctx); err != nil {
		log.Fatal("MongoDB health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	if db != nil {
		if err := db.Health(ctx); err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
	}

	log.Info("All connections healthy")

	// 7. Initialize Repositories
	rosters := map[string]repository.RosterRepository{
		dto.SourceMongo: mongo.NewRosterRepository(mongoClient),
		dto.SourceCSV:   csvroster.NewRosterRepository(log),
	}
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamClient, log)

	// интерфейсы остаются nil без БД, а не typed nil
	var (
		snapshotRepo     repository.SnapshotRepository
		reallocationRepo repository.ReallocationRepository
	)
	if db != nil {
		snapshotRepo = postgres.NewSnapshotRepository(db)
		reallocationRepo = postgres.NewReallocationRepository(db)
	}

	log.Info("Repositories initialized")

	// 8. Initialize engine and use cases
	eng := engine.New(engine.Options{
		Mode:                 domain.ReallocationMode(cfg.Engine.Mode),
		MinJourneyDistanceKm: cfg.Engine.MinJourneyDistanceKm,
		PendingTTL:           cfg.Engine.PendingTTL,
		NoShowRevertWindow:   cfg.Engine.NoShowRevertWindow,
		StrictInvariants:     cfg.Engine.StrictInvariants,
	}, log)

	registry := usecase.NewRegistry()
	publisher := usecase.NewEventPublisher(
		streamRepo,
		snapshotRepo,
		reallocationRepo,
		usecase.PublisherOptions{
			Concurrency:        cfg.Publisher.Concurrency,
			SnapshotMaxElapsed: cfg.Publisher.SnapshotMaxElapsed,
		},
		log,
	)

	trainUC := usecase.NewTrainUseCase(
		registry,
		eng,
		rosters,
		publisher,
		cacheRepo,
		usecase.TrainDefaults{
			Source:             dto.SourceMongo,
			SleeperCoaches:     cfg.Engine.SleeperCoaches,
			ThreeTierACCoaches: cfg.Engine.ThreeTierACCoaches,
		},
		log,
	)
	reallocationUC := usecase.NewReallocationUseCase(registry, eng, publisher, reallocationRepo, log)
	visualizationUC := usecase.NewVisualizationUseCase(registry, eng, cacheRepo, cfg.Cache.ViewCacheTTL, log)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	trainHandler := handler.NewTrainHandler(trainUC, log)
	reallocationHandler := handler.NewReallocationHandler(reallocationUC, log)
	visualizationHandler := handler.NewVisualizationHandler(visualizationUC, log)

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		trainHandler,
		reallocationHandler,
		visualizationHandler,
	)

	// 11. Background workers - истечение предложений в режиме APPROVAL
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	if eng.Mode() == domain.ModeApproval {
		workerManager.Register(reallocation.NewExpiryWorker(reallocationUC, cfg.Worker.ExpiryInterval, log))
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 12. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	// дожидаемся отложенных публикаций и снимков до закрытия соединений
	publisher.Wait()

	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	if err := streamClient.Close(); err != nil {
		log.Error("Failed to close Redis Streams", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	if err := mongoClient.Close(shutdownCtx); err != nil {
		log.Error("Failed to close MongoDB", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
