package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/internal/database"
	"github.com/szlakly/trailrec/internal/handlers"
	"github.com/szlakly/trailrec/internal/middleware"
	"github.com/szlakly/trailrec/internal/services"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	// Initialize database connections
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	// Initialize services
	services, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	// Initialize handlers
	app.handlers = handlers.New(cfg, app.logger, services)

	// Setup router
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.services.EventBus != nil {
		if err := a.services.EventBus.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing event bus")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.Security())
	router.Use(middleware.Compression())

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token exchange (no auth required)
	router.POST("/auth/token", a.handlers.Auth.Token)

	// API routes
	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))
		api.Use(middleware.RateLimit(a.services.RateLimit, a.logger))

		// Recommendation routes
		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("", a.handlers.Recommendation.Get)
			recommendations.POST("/multi", a.handlers.Recommendation.Multi)
			recommendations.GET("/report", a.handlers.Report.Text)
			recommendations.GET("/export", a.handlers.Report.CSV)
		}

		// Trail catalog routes
		api.GET("/trails", a.handlers.Trail.List)

		// Weather routes
		weather := api.Group("/weather")
		{
			weather.GET("", a.handlers.Weather.Get)
			weather.GET("/range", a.handlers.Weather.GetRange)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/catalog/seed", a.handlers.Admin.SeedCatalog)
			admin.GET("/scoring/config", a.handlers.Admin.GetScoringConfiguration)
		}
	}

	a.router = router
}
