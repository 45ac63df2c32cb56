package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

const tracerName = "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the catalog service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Snapshot(ctx context.Context) *domain.Snapshot {
	return s.inner.Snapshot(ctx)
}

func (s *Service) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Refresh")
	defer span.End()

	snapshot, err := s.inner.Refresh(ctx)
	if err != nil {
		s.metrics.recordRefresh(ctx, "failed")
		return nil, s.handleError(ctx, span, err, "catalog refresh failed")
	}
	s.metrics.recordRefresh(ctx, "applied")
	span.SetAttributes(
		attribute.Int64("catalog.generation", int64(snapshot.Generation)),
		attribute.Int("catalog.items", len(snapshot.Items)),
		attribute.Int("catalog.tables", len(snapshot.Tables)),
	)
	s.logInfo(ctx, "catalog refreshed",
		slog.Uint64("catalog.generation", snapshot.Generation),
		slog.Int("catalog.items", len(snapshot.Items)),
		slog.Int("catalog.tables", len(snapshot.Tables)))
	return snapshot, nil
}

func (s *Service) CreateItem(ctx context.Context, fields domain.ItemFields) (*domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateItem", trace.WithAttributes(attribute.String("item.code", fields.Code)))
	defer span.End()

	s.logInfo(ctx, "creating item", slog.String("item.code", fields.Code))
	item, err := s.inner.CreateItem(ctx, fields)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create item", slog.String("item.code", fields.Code))
	}
	s.metrics.recordEdit(ctx, "create_item")
	s.logInfo(ctx, "item created", slog.String("item.id", item.ID), slog.String("item.code", item.Code))
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, id string, fields domain.ItemFields) (*domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "updating item", slog.String("item.id", id))
	item, err := s.inner.UpdateItem(ctx, id, fields)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update item", slog.String("item.id", id))
	}
	s.metrics.recordEdit(ctx, "update_item")
	s.logInfo(ctx, "item updated", slog.String("item.id", item.ID), slog.String("item.price", item.Price.String()))
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteItem", trace.WithAttributes(attribute.String("item.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting item", slog.String("item.id", id))
	if err := s.inner.DeleteItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete item", slog.String("item.id", id))
	}
	s.metrics.recordEdit(ctx, "delete_item")
	s.logInfo(ctx, "item deleted", slog.String("item.id", id))
	return nil
}

func (s *Service) CreateTable(ctx context.Context, fields domain.TableFields) (*domain.Table, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateTable", trace.WithAttributes(attribute.Int("table.number", fields.Number)))
	defer span.End()

	s.logInfo(ctx, "creating table", slog.Int("table.number", fields.Number))
	table, err := s.inner.CreateTable(ctx, fields)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create table", slog.Int("table.number", fields.Number))
	}
	s.metrics.recordEdit(ctx, "create_table")
	s.logInfo(ctx, "table created", slog.String("table.id", table.ID), slog.Int("table.number", table.Number))
	return table, nil
}

func (s *Service) DeleteTable(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteTable", trace.WithAttributes(attribute.String("table.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting table", slog.String("table.id", id))
	if err := s.inner.DeleteTable(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete table", slog.String("table.id", id))
	}
	s.metrics.recordEdit(ctx, "delete_table")
	s.logInfo(ctx, "table deleted", slog.String("table.id", id))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger == nil {
		return err
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	level := slog.LevelError
	if apierrors.IsValidation(err) {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	refreshes metric.Int64Counter
	edits     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	refreshes, _ := m.Int64Counter("catalog.service.refreshes", metric.WithDescription("Number of catalog refreshes by outcome"))
	edits, _ := m.Int64Counter("catalog.service.edits", metric.WithDescription("Number of catalog edits by kind"))
	return serviceMetrics{refreshes: refreshes, edits: edits}
}

func (m serviceMetrics) recordRefresh(ctx context.Context, outcome string) {
	if m.refreshes != nil {
		m.refreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("refresh.outcome", outcome)))
	}
}

func (m serviceMetrics) recordEdit(ctx context.Context, kind string) {
	if m.edits != nil {
		m.edits.Add(ctx, 1, metric.WithAttributes(attribute.String("edit.kind", kind)))
	}
}

var _ ports.Service = (*Service)(nil)
