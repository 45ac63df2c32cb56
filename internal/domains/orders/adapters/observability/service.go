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

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

const tracerName = "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/observability/service"

// Service decorates the order engine with tracing, logging, and metrics.
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

// New wraps the order engine.
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

func (s *Service) AdjustQuantity(ctx context.Context, tableID, itemID string, delta int) (*domain.Aggregate, error) {
	ctx, span := s.tracer.Start(ctx, "OrderEngine.AdjustQuantity", trace.WithAttributes(
		attribute.String("table.id", tableID),
		attribute.String("item.id", itemID),
		attribute.Int("line.delta", delta),
	))
	defer span.End()

	result, err := s.inner.AdjustQuantity(ctx, tableID, itemID, delta)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust quantity",
			slog.String("table.id", tableID), slog.String("item.id", itemID), slog.Int("line.delta", delta))
	}
	s.metrics.recordAdjusted(ctx, delta)
	span.SetAttributes(attribute.Int("order.lines", len(result.Lines)), attribute.String("order.total", result.Total.String()))
	s.logDebug(ctx, "quantity adjusted",
		slog.String("table.id", tableID), slog.String("item.id", itemID),
		slog.Int("line.quantity", result.Quantity(itemID)), slog.String("order.total", result.Total.String()))
	return result, nil
}

func (s *Service) ClearOrder(ctx context.Context, tableID string) error {
	ctx, span := s.tracer.Start(ctx, "OrderEngine.ClearOrder", trace.WithAttributes(attribute.String("table.id", tableID)))
	defer span.End()

	s.logInfo(ctx, "clearing order", slog.String("table.id", tableID))
	if err := s.inner.ClearOrder(ctx, tableID); err != nil {
		return s.handleError(ctx, span, err, "failed to clear order", slog.String("table.id", tableID))
	}
	s.metrics.recordCleared(ctx)
	s.logInfo(ctx, "order cleared", slog.String("table.id", tableID))
	return nil
}

func (s *Service) Checkout(ctx context.Context, tableID string) (*domain.OrderRecord, error) {
	ctx, span := s.tracer.Start(ctx, "OrderEngine.Checkout", trace.WithAttributes(attribute.String("table.id", tableID)))
	defer span.End()

	s.logInfo(ctx, "committing order", slog.String("table.id", tableID))
	record, err := s.inner.Checkout(ctx, tableID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to commit order", slog.String("table.id", tableID))
	}
	s.metrics.recordCommitted(ctx, len(record.Lines))
	span.SetAttributes(attribute.String("order.id", record.ID))
	s.logInfo(ctx, "order committed",
		slog.String("order.id", record.ID), slog.String("table.id", tableID), slog.String("order.total", record.Total.String()))
	return record, nil
}

func (s *Service) GetAggregate(ctx context.Context, tableID string) *domain.Aggregate {
	ctx, span := s.tracer.Start(ctx, "OrderEngine.GetAggregate", trace.WithAttributes(attribute.String("table.id", tableID)))
	defer span.End()
	return s.inner.GetAggregate(ctx, tableID)
}

func (s *Service) ListAggregates(ctx context.Context) []*domain.Aggregate {
	ctx, span := s.tracer.Start(ctx, "OrderEngine.ListAggregates")
	defer span.End()

	result := s.inner.ListAggregates(ctx)
	span.SetAttributes(attribute.Int("orders.count", len(result)))
	return result
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// handleError logs validation failures at warn and everything else at error.
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
	adjustments metric.Int64Counter
	cleared     metric.Int64Counter
	committed   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	adjustments, _ := m.Int64Counter("orders.engine.quantity_adjustments", metric.WithDescription("Number of quantity adjustments applied"))
	cleared, _ := m.Int64Counter("orders.engine.orders_cleared", metric.WithDescription("Number of tables cleared"))
	committed, _ := m.Int64Counter("orders.engine.orders_committed", metric.WithDescription("Number of orders committed"))
	return serviceMetrics{adjustments: adjustments, cleared: cleared, committed: committed}
}

func (m serviceMetrics) recordAdjusted(ctx context.Context, delta int) {
	if m.adjustments == nil {
		return
	}
	direction := "increment"
	if delta < 0 {
		direction = "decrement"
	}
	m.adjustments.Add(ctx, 1, metric.WithAttributes(attribute.String("line.direction", direction)))
}

func (m serviceMetrics) recordCleared(ctx context.Context) {
	if m.cleared != nil {
		m.cleared.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCommitted(ctx context.Context, lines int) {
	if m.committed != nil {
		m.committed.Add(ctx, 1, metric.WithAttributes(attribute.Int("order.lines", lines)))
	}
}

var _ ports.Service = (*Service)(nil)
