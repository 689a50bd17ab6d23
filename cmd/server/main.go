package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elecmate/maintenance-planner/internal/api/handlers"
	"github.com/elecmate/maintenance-planner/internal/app"
	"github.com/elecmate/maintenance-planner/internal/config"
	"github.com/elecmate/maintenance-planner/internal/health"
	"github.com/elecmate/maintenance-planner/internal/middleware"
	"github.com/elecmate/maintenance-planner/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const serviceName = "maintenance-planner"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	utils.InitLogger(cfg.LogLevel)
	logger := utils.GetLogger()
	logger.Info("Starting maintenance planner...")

	if err := cfg.ValidateServer(); err != nil {
		logger.WithError(err).Fatal("Server configuration invalid")
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	var statusCache health.StatusCache
	if application.Cache != nil {
		statusCache = application.Cache
	}
	checker := health.NewHealthChecker(application.Repositories.SystemHealth, statusCache, logger)
	checker.Register("postgresql", application.DB.PingDatabase, true)
	if application.DB.Redis != nil {
		checker.Register("redis", application.DB.PingRedis, false)
	}
	checker.Register("openai", func(ctx context.Context) error {
		_, err := application.OpenAI.ListModels(ctx)
		return err
	}, true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go checker.PeriodicHealthCheck(ctx, 30*time.Second)

	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit)
	defer limiter.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders())

	healthHandler := handlers.NewHealthHandler(checker, serviceName)
	maintenanceHandler := handlers.NewMaintenanceHandler(application.Planner, logger)

	router.GET("/health", healthHandler.HandleHealth)

	v1 := router.Group("/api/v1/maintenance")
	{
		v1.POST("/plan", limiter.RateLimit(), maintenanceHandler.HandleGeneratePlan)
		v1.GET("/generations", maintenanceHandler.HandleListGenerations)
		v1.GET("/generations/stats", maintenanceHandler.HandleTierStats)
		v1.GET("/generations/:requestId", maintenanceHandler.HandleGetGeneration)
	}

	// Generation can take several minutes; the write timeout must exceed it.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Generation.Timeout*time.Duration(cfg.Generation.RepromptAttempts+1) + 30*time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}
