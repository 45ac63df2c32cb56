package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	backendclient "github.com/Apurer/go-gin-pos-server/internal/clients/http/backend"
	catalogmemory "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-pos-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-pos-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-pos-server/internal/platform/postgres"
)

// BackendKind names where the catalog and committed orders live.
type BackendKind string

const (
	BackendMemory   BackendKind = "memory"
	BackendPostgres BackendKind = "postgres"
	BackendRemote   BackendKind = "remote"
)

// Backend bundles both sides of the persistence gateway.
type Backend struct {
	Kind    BackendKind
	Catalog catalogports.Repository
	Orders  orderports.Gateway
}

// Shared reports whether other processes see the same backend, which the
// durable checkout needs because its activity runs in the worker.
func (b Backend) Shared() bool {
	return b.Kind != BackendMemory
}

// NewMemoryBackend wires the in-process catalog and order gateway.
func NewMemoryBackend() Backend {
	repo := catalogmemory.NewRepository()
	orders := ordersmemory.NewGateway(repo)
	repo.WithItemInUse(orders.References)
	return Backend{Kind: BackendMemory, Catalog: repo, Orders: orders}
}

// BuildBackend picks the remote backend when BACKEND_URL is set, then
// PostgreSQL, and falls back to memory.
func BuildBackend(ctx context.Context, cfg Config, logger *slog.Logger) (Backend, func()) {
	if cfg.BackendURL != "" {
		c, err := backendclient.NewClient(cfg.BackendURL, nil)
		if err == nil {
			logger.Info("persistence gateway configured with remote backend", slog.String("url", cfg.BackendURL))
			return Backend{Kind: BackendRemote, Catalog: c, Orders: c}, func() {}
		}
		logger.Warn("invalid BACKEND_URL, trying postgres", slog.String("error", err.Error()))
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return NewMemoryBackend(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return NewMemoryBackend(), func() {}
	}
	logger.Info("persistence gateway configured with postgres")
	return Backend{
		Kind:    BackendPostgres,
		Catalog: catalogpostgres.NewRepository(db),
		Orders:  orderspostgres.NewRepository(db),
	}, cleanup
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
