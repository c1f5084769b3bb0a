package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "marketing-analytics-service/docs"

	catalogHttp "marketing-analytics-service/internal/catalog/adapters/http/fiber"
	catalogRepoPg "marketing-analytics-service/internal/catalog/adapters/postgres"
	catalogUsecase "marketing-analytics-service/internal/catalog/core/usecase"

	eventsHttp "marketing-analytics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "marketing-analytics-service/internal/events/adapters/postgres"
	eventsUsecase "marketing-analytics-service/internal/events/core/usecase"

	metricsHttp "marketing-analytics-service/internal/metrics/adapters/http/fiber"
	metricsRepoPg "marketing-analytics-service/internal/metrics/adapters/postgres"
	metricsUsecase "marketing-analytics-service/internal/metrics/core/usecase"

	"marketing-analytics-service/internal/platform/config"
	"marketing-analytics-service/internal/platform/database"
	"marketing-analytics-service/internal/platform/logger"
	"marketing-analytics-service/internal/platform/telemetry"
)

// @title Marketing Analytics API
// @version 1.0
// @description Ingestion, catalog and aggregated marketing metrics
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Environment, cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB connection
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		log.Info("schema applied")
	}

	sqlDB := database.NewSQLDB(db)

	// Repositories
	eventRepository := eventsRepoPg.NewEventRepository(sqlDB)
	catalogRepository := catalogRepoPg.NewCatalogRepository(sqlDB)
	metricsRepository := metricsRepoPg.NewMetricsRepository(sqlDB)

	// Usecases
	storeEventUC := eventsUsecase.NewStoreEventUseCase(eventRepository, catalogRepository)
	catalogUC := catalogUsecase.NewCatalogUseCase(catalogRepository, catalogRepository, log)
	getMetricsUC := metricsUsecase.NewGetMetricsUseCase(metricsRepository)

	httpMetrics := telemetry.NewHTTP()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(httpMetrics.Middleware())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Registered before the metrics routes so it is not shadowed.
	app.Get("/metrics/prometheus", adaptor.HTTPHandler(httpMetrics.Handler()))

	eventsHttp.NewEventHandler(storeEventUC).Register(app)
	catalogHttp.NewCatalogHandler(catalogUC, log).Register(app)
	metricsHttp.NewMetricsHandler(getMetricsUC, log).Register(app)

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Error("fiber stopped", zap.Error(err))
			stop()
		}
	}()

	log.Info("server started", zap.String("addr", cfg.Server.Addr))

	<-ctx.Done()

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("fiber shutdown error", zap.Error(err))
	}

	log.Info("server exiting")
}
