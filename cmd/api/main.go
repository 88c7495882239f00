package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toppings-pos/internal/config"
	"toppings-pos/internal/database"
	"toppings-pos/internal/events"
	"toppings-pos/internal/handler"
	"toppings-pos/internal/metrics"
	"toppings-pos/internal/middleware"
	"toppings-pos/internal/repository"
	"toppings-pos/internal/router"
	"toppings-pos/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger, "pos-api")
	logger.Info().Str("env", cfg.Env).Msg("starting POS API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := metrics.RegisterPool(pool); err != nil {
		return fmt.Errorf("failed to register pool metrics: %w", err)
	}

	publisher, err := newPublisher(cfg.AMQP, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize order event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close order event publisher")
		}
	}()

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, logger)
	orderService := service.NewOrderService(orderRepo, publisher, cfg.Database.TxTimeout, logger)

	// Initialize router
	opts := router.Options{RequestTimeout: cfg.Server.RequestTimeout}
	if cfg.RateLimit.RPS > 0 {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger)
		opts.RateLimiter.StartCleanup(time.Minute, ctx.Done())
	}

	mux := router.New(router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService, logger),
		Order:   handler.NewOrderHandler(orderService, cfg.IsDevelopment(), logger),
		Health:  handler.NewHealthHandler(pool, logger),
	}, opts, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// In-flight order transactions finish before the pool closes.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newPublisher connects to the broker when enabled, otherwise events are dropped.
func newPublisher(cfg config.AMQPConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled (AMQP_ENABLED=false)")
		return events.NewNopPublisher(logger), nil
	}
	return events.NewAMQPPublisher(cfg.URL, cfg.Exchange, logger)
}
