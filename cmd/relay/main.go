package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/capi-relay/internal/config"
	"github.com/DanielPopoola/capi-relay/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting relay service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"env", cfg.Primary.Environment(),
		"delivery_log", cfg.DeliveryLog.Driver,
	)

	ctx := context.Background()
	deliveries, closeDeliveries, err := openDeliveryLog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open delivery log", "error", err)
		os.Exit(1)
	}
	defer closeDeliveries()

	relay := server.New(cfg, deliveries, logger)
	if !relay.LinkedIn.HasToken() {
		logger.Warn("linkedin token not configured; events will fail with missing_token")
	}
	if !relay.Quora.HasToken() {
		logger.Warn("quora token not configured; events will fail with missing_token")
	}

	httpServer := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      relay.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
