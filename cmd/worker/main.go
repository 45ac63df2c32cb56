package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-pos-server/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-pos-server/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-pos-server/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "pos-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, cleanupBackend := api.BuildBackend(ctx, cfg, logger)
	defer cleanupBackend()
	if !backend.Shared() {
		logger.Warn("worker commits into an in-memory backend the API cannot see")
	}
	commitActivities := orderactivities.NewActivities(backend.Orders)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CheckoutTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CheckoutWorkflow, workflow.RegisterOptions{Name: orderworkflows.CheckoutWorkflowName})
	w.RegisterActivityWithOptions(commitActivities.CommitOrder, activity.RegisterOptions{Name: orderactivities.CommitOrderActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.CheckoutTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("backend", string(backend.Kind)),
	)
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
