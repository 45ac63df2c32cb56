package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
)

func TestToDraft_GeneratesMissingID(t *testing.T) {
	total := decimal.RequireFromString("17")
	draft, err := ToDraft(OrderRequest{
		TableID:     "t1",
		Items:       []OrderItem{{ID: "i1", Quantity: 2, Price: decimal.RequireFromString("8.50")}},
		TotalAmount: &total,
	}, func() string { return "generated" })
	require.NoError(t, err)
	require.Equal(t, "generated", draft.ID)
	require.NoError(t, draft.Validate())

	draft, err = ToDraft(OrderRequest{ID: "o1", TableID: "t1", TotalAmount: &total}, func() string { return "unused" })
	require.NoError(t, err)
	require.Equal(t, "o1", draft.ID)

	_, err = ToDraft(OrderRequest{TableID: "t1"}, func() string { return "x" })
	require.ErrorIs(t, err, errMissingTotal)
}

func TestFromAggregate_DecoratesFromSnapshot(t *testing.T) {
	snapshot := catalogdomain.NewSnapshot(
		[]catalogdomain.MenuItem{{ID: "i1", Name: "Burger", Code: "B1", Price: decimal.RequireFromString("8.50")}},
		nil, 1, time.Time{},
	)
	agg := domain.Empty("t1")
	require.NoError(t, agg.Adjust("i1", 3, snapshot, time.Unix(10, 0)))

	out := FromAggregate(agg, snapshot)
	require.Equal(t, map[string]int{"i1": 3}, out.Lines)
	require.Len(t, out.Items, 1)
	require.Equal(t, "Burger", out.Items[0].Name)
	require.True(t, decimal.RequireFromString("25.50").Equal(out.Items[0].Subtotal))
	require.True(t, decimal.RequireFromString("25.50").Equal(out.Total))
	require.NotNil(t, out.UpdatedAt)

	empty := FromAggregate(domain.Empty("t2"), snapshot)
	require.NotNil(t, empty.Lines)
	require.Nil(t, empty.UpdatedAt)
}

func TestFromOrderRecord(t *testing.T) {
	out := FromOrderRecord(&domain.OrderRecord{
		ID:      "o1",
		TableID: "t1",
		Total:   decimal.RequireFromString("3"),
		Status:  domain.StatusPending,
		Lines:   []domain.OrderLine{{ItemID: "i1", Quantity: 2, PriceAtTime: decimal.RequireFromString("1.5")}},
	})
	require.Equal(t, "pending", out.Status)
	require.Equal(t, []OrderItem{{ID: "i1", Quantity: 2, Price: decimal.RequireFromString("1.5")}}, out.Items)
}
