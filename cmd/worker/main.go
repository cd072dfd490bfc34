package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bellaajmohsen7/sofiene/internal/bootstrap"
	"github.com/bellaajmohsen7/sofiene/internal/config"
	"github.com/bellaajmohsen7/sofiene/internal/core/domain"
	"github.com/bellaajmohsen7/sofiene/internal/observability/logging"
	"github.com/bellaajmohsen7/sofiene/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:        ":" + cfg.WorkerMetricsPort,
		Handler:     metricsMux,
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server failed", "error", err)
		}
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeQueryAnswered(ctx, func(handlerCtx context.Context, entry domain.QueryLogEntry) error {
		workerMetrics.StartEvent()
		workerMetrics.ObserveQueueLag("worker", time.Since(entry.CreatedAt))
		start := time.Now()

		recordCtx, cancel := context.WithTimeout(handlerCtx, 10*time.Second)
		defer cancel()
		recordErr := app.QueryLog.RecordQuery(recordCtx, entry)

		workerMetrics.FinishEvent("worker", time.Since(start), recordErr)
		return recordErr
	})
	if err != nil {
		logger.Error("worker subscription failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker metrics shutdown failed", "error", err)
	}
}
