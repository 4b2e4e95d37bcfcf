package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comanda-app/comanda/adapter/api"
	"github.com/comanda-app/comanda/internal/app"
	"github.com/comanda-app/comanda/pkg/config"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting comanda API")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Update logger level based on config
	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	// Initialize the container
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Start outbox processor in background
	if cfg.OutboxProcessorEnabled {
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	}

	handler := api.NewTabHandler(api.TabHandlerConfig{
		RegisterConsumption: container.RegisterConsumptionHandler,
		ConfirmPayment:      container.ConfirmPaymentHandler,
		GeneratePixPayment:  container.GeneratePixPaymentHandler,
		ListConsumptions:    container.ListCustomerConsumptionsHandler,
		GetDetails:          container.GetConsumptionDetailsHandler,
		IdentifyCustomer:    container.IdentifyCustomerHandler,
		ListProducts:        container.ListAvailableProductsHandler,
		Logger:              logger,
	})

	serverCfg := api.DefaultServerConfig()
	if cfg.APIAddr != "" {
		serverCfg.Addr = cfg.APIAddr
	}
	server := api.NewServer(serverCfg, handler, container.Health, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("API server shutdown error", "error", err)
	}

	logger.Info("API stopped")
}
