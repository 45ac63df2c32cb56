package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	posserver "github.com/Apurer/go-gin-pos-server/go"

	catalogobs "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	ordersmessaging "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/messaging"
	ordersobs "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-pos-server/internal/platform/observability"
)

const serviceName = "pos-api"

// Run boots the POS HTTP API with observability, the persistence gateway,
// the catalog store and the order engine wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	backend, cleanupBackend := BuildBackend(ctx, cfg, logger)
	defer cleanupBackend()

	gateway, cleanupGateway := buildCheckoutGateway(cfg, instruments, backend)
	defer cleanupGateway()

	handlers, catalog := NewHandlers(backend, gateway, instruments)
	refreshCtx, cancel := context.WithTimeout(ctx, cfg.RefreshTimeout)
	if _, err := catalog.Refresh(refreshCtx); err != nil {
		logger.Warn("initial catalog refresh failed, serving an empty catalog", slog.String("error", err.Error()))
	}
	cancel()

	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := posserver.NewRouterWithGinEngine(engine, handlers)
	addr := cfg.Addr()
	logger.Info("POS API listening", slog.String("addr", addr), slog.String("backend", string(backend.Kind)))
	if err := router.Run(addr); err != nil {
		logger.Error("POS API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// NewHandlers wires the catalog store, the order engine and their decorators
// over backend, with checkout routed through gateway. It returns the handlers
// and the decorated catalog service for the initial refresh.
func NewHandlers(backend Backend, gateway orderports.Gateway, instruments *platformobservability.Instruments) (posserver.ApiHandleFunctions, catalogports.Service) {
	logger := effectiveLogger(instruments)
	store := catalogapp.NewStore(backend.Catalog)
	catalog := catalogobs.New(
		catalogapp.NewService(backend.Catalog, store, catalogapp.WithRefreshErrorHandler(refreshLogger(logger, "catalog edit"))),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	engine := ordersapp.NewEngine(
		ordersmemory.NewAggregateStore(),
		store,
		gateway,
		ordersapp.WithRefreshErrorHandler(refreshLogger(logger, "order commit")),
	)
	store.Subscribe(engine.Reconcile)
	orders := ordersobs.New(
		engine,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return posserver.ApiHandleFunctions{
		CatalogAPI: posserver.NewCatalogAPI(catalog, backend.Catalog),
		OrdersAPI:  posserver.NewOrdersAPI(backend.Orders),
		SessionAPI: posserver.NewSessionAPI(catalog, orders),
	}, catalog
}

// buildCheckoutGateway runs commits through Temporal when the backend is
// shared with the worker, and decorates the result with kitchen events when
// RabbitMQ is configured.
func buildCheckoutGateway(cfg Config, instruments *platformobservability.Instruments, backend Backend) (orderports.Gateway, func()) {
	logger := effectiveLogger(instruments)
	var gateway orderports.Gateway = ordersworkflows.NewInlineCheckout(backend.Orders)
	cleanups := []func(){}

	switch temporalClient, err := ConnectTemporal(cfg, instruments); {
	case err != nil:
		logger.Warn("Temporal workflows unavailable, committing orders inline", slog.String("error", err.Error()))
	case !backend.Shared():
		temporalClient.Close()
		logger.Warn("Temporal checkout needs a shared backend, committing orders inline", slog.String("backend", string(backend.Kind)))
	default:
		cleanups = append(cleanups, temporalClient.Close)
		gateway = ordersworkflows.NewTemporalCheckout(temporalClient, backend.Orders)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := ordersmessaging.Dial(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, kitchen events disabled", slog.String("error", err.Error()))
		} else {
			cleanups = append(cleanups, func() { _ = publisher.Close() })
			gateway = ordersmessaging.NewGateway(gateway, publisher, logger)
			logger.Info("kitchen events enabled", slog.String("exchange", ordersmessaging.EventsExchange))
		}
	}

	return gateway, func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
}

func refreshLogger(logger *slog.Logger, after string) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		logger.WarnContext(ctx, "catalog refresh failed", slog.String("after", after), slog.String("error", err.Error()))
	}
}
