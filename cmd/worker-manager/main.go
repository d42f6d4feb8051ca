// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	"childcare-assistant/internal/app"
	"childcare-assistant/internal/common/camunda"
	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/pkg/registry"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	if err := config.ValidateForWorkers(cfg); err != nil {
		bootLog.Fatal("invalid worker configuration", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("failed to build application", zap.Error(err))
	}
	defer application.Close()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retry.Do(
		func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(10),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(30*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			zapLog.Warn("Zeebe client initialization failed, retrying...",
				zap.Error(err),
				zap.Uint("attempt", n+1),
			)
		}),
	)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("broker", cfg.Camunda.BrokerAddress))

	workers := camunda.NewWorkers(zeebe, log)
	if err := application.StartWorkers(ctx, workers); err != nil {
		zapLog.Fatal("failed to register workers", zap.Error(err))
	}
	zapLog.Info("Workers registered", zap.Strings("running", workers.Running()))

	if reg, err := registry.LoadRegistry(registry.DefaultPath); err != nil {
		zapLog.Warn("activity registry not loaded", zap.Error(err))
	} else if missing := reg.Missing(workers.Running()); len(missing) > 0 {
		zapLog.Warn("workers missing from activity registry", zap.Strings("taskTypes", missing))
	}

	// --- API, Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	workers.Stop()
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
