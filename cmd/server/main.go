package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/cardforge/og-render/configs"
	"github.com/cardforge/og-render/internal/application/services"
	"github.com/cardforge/og-render/internal/core/ports"
	"github.com/cardforge/og-render/internal/infrastructure/cache"
	"github.com/cardforge/og-render/internal/infrastructure/health"
	"github.com/cardforge/og-render/internal/infrastructure/httpserver"
	"github.com/cardforge/og-render/internal/infrastructure/renderer"
	"github.com/cardforge/og-render/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	// run owns the deferred releases; Fatal here would skip them.
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	logger.Info("Starting OG render service...")

	// Initialize the tiered cache manager and its background sweep
	cacheManager, err := cache.NewManager(cache.Options{
		Capacity:      cfg.Cache.Capacity,
		TTL:           cfg.Cache.TTL,
		Dir:           cfg.Cache.Dir,
		SweepInterval: cfg.Cache.SweepInterval,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache manager: %w", err)
	}
	cacheManager.StartSweeper()
	defer cacheManager.Close()

	logger.WithFields(logrus.Fields{"capacity": cfg.Cache.Capacity, "ttl": cfg.Cache.TTL, "dir": cfg.Cache.Dir}).Info("Cache manager initialized")

	// Initialize the headless renderer; it must be released on every exit path
	chromeRenderer := renderer.NewChromeRenderer(logger)
	defer chromeRenderer.Close()

	// Wire services
	renderService := services.NewRenderService(cacheManager, chromeRenderer, &services.RenderConfig{
		Attempts: cfg.Render.Attempts,
		Backoff:  cfg.Render.Backoff,
		Timeout:  cfg.Render.Timeout,
	}, logger)

	rateLimitStore := repositories.NewRateLimitMemoryRepository()
	rateLimiterService := services.NewRateLimiterService(rateLimitStore, &services.RateLimiterConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}, logger)

	hcSlice := []ports.HealthChecker{health.NewDiskCacheHealthChecker(cfg.Cache.Dir)}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
		HTTPCacheTTL:   cfg.Cache.HTTPCacheTTL,
		AdminToken:     cfg.Admin.Token,
	}

	deps := httpserver.ServerDeps{
		RenderService:      renderService,
		Cache:              cacheManager,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine; failures flow back so the deferred
	// releases above still run.
	serverErrors := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}
