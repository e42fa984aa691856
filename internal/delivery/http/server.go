package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/rac-reallocation/internal/config"
	"github.com/rac-reallocation/internal/delivery/http/handler"
	"github.com/rac-reallocation/internal/delivery/http/middleware"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	trainHandler         *handler.TrainHandler
	reallocationHandler  *handler.ReallocationHandler
	visualizationHandler *handler.VisualizationHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	trainHandler *handler.TrainHandler,
	reallocationHandler *handler.ReallocationHandler,
	visualizationHandler *handler.VisualizationHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "RAC Reallocation Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                  app,
		config:               cfg,
		logger:               logger,
		trainHandler:         trainHandler,
		reallocationHandler:  reallocationHandler,
		visualizationHandler: visualizationHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
			"mode":   s.config.Engine.Mode,
		})
	})

	trains := api.Group("/trains")
	trains.Get("/", s.visualizationHandler.ListTrains)
	trains.Post("/", s.trainHandler.Initialize)
	trains.Get("/:trainNo", s.visualizationHandler.GetSummary)
	trains.Delete("/:trainNo", s.trainHandler.Delete)
	trains.Post("/:trainNo/reset", s.trainHandler.Reset)

	// Journey
	trains.Post("/:trainNo/arrival", s.trainHandler.ProcessArrival)
	trains.Post("/:trainNo/advance", s.trainHandler.Advance)

	// Passengers
	trains.Get("/:trainNo/passengers/:pnr", s.visualizationHandler.GetPassenger)
	trains.Post("/:trainNo/passengers/:pnr/no-show", s.trainHandler.MarkNoShow)
	trains.Post("/:trainNo/passengers/:pnr/revert-no-show", s.trainHandler.RevertNoShow)

	// Visualization
	trains.Get("/:trainNo/stats", s.visualizationHandler.GetStats)
	trains.Get("/:trainNo/rac-queue", s.visualizationHandler.GetRACQueue)
	trains.Get("/:trainNo/vacancies", s.visualizationHandler.GetVacancies)
	trains.Get("/:trainNo/segments", s.visualizationHandler.GetSegments)
	trains.Get("/:trainNo/events", s.visualizationHandler.GetEvents)

	// Eligibility and TTE approval
	trains.Get("/:trainNo/eligibility", s.reallocationHandler.GetEligibility)
	trains.Get("/:trainNo/eligibility/diagnostics", s.reallocationHandler.GetDiagnostics)
	trains.Get("/:trainNo/reallocations", s.reallocationHandler.List)
	trains.Get("/:trainNo/reallocations/history", s.reallocationHandler.History)
	trains.Post("/:trainNo/reallocations/approve", s.reallocationHandler.Approve)
	trains.Post("/:trainNo/reallocations/:id/reject", s.reallocationHandler.Reject)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки роутинга fiber в формате ErrorResponse
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    strings.ToUpper(strings.ReplaceAll(fiberutils.StatusMessage(code), " ", "_")),
				"message": err.Error(),
			},
		})
	}
}
