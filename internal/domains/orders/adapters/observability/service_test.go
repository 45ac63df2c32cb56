package observability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

type stubEngine struct {
	adjustErr error
}

func (s *stubEngine) AdjustQuantity(_ context.Context, tableID, itemID string, delta int) (*domain.Aggregate, error) {
	if s.adjustErr != nil {
		return nil, s.adjustErr
	}
	agg := domain.Empty(tableID)
	agg.Lines[itemID] = delta
	return agg, nil
}

func (s *stubEngine) ClearOrder(context.Context, string) error { return nil }

func (s *stubEngine) Checkout(_ context.Context, tableID string) (*domain.OrderRecord, error) {
	return &domain.OrderRecord{ID: "o1", TableID: tableID, Lines: []domain.OrderLine{{ItemID: "i1", Quantity: 1}}}, nil
}

func (s *stubEngine) GetAggregate(_ context.Context, tableID string) *domain.Aggregate {
	return domain.Empty(tableID)
}

func (s *stubEngine) ListAggregates(context.Context) []*domain.Aggregate { return nil }

func counterTotals(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	totals := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, point := range sum.DataPoints {
				totals[m.Name] += point.Value
			}
		}
	}
	return totals
}

func TestService_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	svc := New(&stubEngine{}, WithMeter(provider.Meter("test")))
	ctx := context.Background()

	_, err := svc.AdjustQuantity(ctx, "t1", "i1", 2)
	require.NoError(t, err)
	_, err = svc.AdjustQuantity(ctx, "t1", "i1", 1)
	require.NoError(t, err)
	require.NoError(t, svc.ClearOrder(ctx, "t1"))
	_, err = svc.Checkout(ctx, "t1")
	require.NoError(t, err)

	totals := counterTotals(t, reader)
	require.Equal(t, int64(2), totals["orders.engine.quantity_adjustments"])
	require.Equal(t, int64(1), totals["orders.engine.orders_cleared"])
	require.Equal(t, int64(1), totals["orders.engine.orders_committed"])
}

func TestService_ValidationFailuresLogAtWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &stubEngine{adjustErr: fmt.Errorf("%w: unknown item", apierrors.ErrValidation)}
	svc := New(inner, WithLogger(logger))

	_, err := svc.AdjustQuantity(context.Background(), "t1", "ghost", 1)
	require.ErrorIs(t, err, apierrors.ErrValidation)
	require.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	inner.adjustErr = errors.New("boom")
	_, err = svc.AdjustQuantity(context.Background(), "t1", "i1", 1)
	require.Error(t, err)
	require.Contains(t, buf.String(), `"level":"ERROR"`)
}
