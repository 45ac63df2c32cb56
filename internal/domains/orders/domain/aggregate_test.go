package domain

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type priceMap map[string]decimal.Decimal

func (p priceMap) Price(id string) (decimal.Decimal, bool) {
	price, ok := p[id]
	return price, ok
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireTotal(t *testing.T, want string, agg *Aggregate) {
	t.Helper()
	require.Truef(t, dec(want).Equal(agg.Total), "total: want %s, got %s", want, agg.Total)
}

func TestAdjust_IncrementDecrementScenario(t *testing.T) {
	prices := priceMap{"i1": dec("8.50")}
	agg := Empty("t1")
	at := time.Unix(100, 0)

	require.NoError(t, agg.Adjust("i1", 1, prices, at))
	require.Equal(t, map[string]int{"i1": 1}, agg.Lines)
	requireTotal(t, "8.50", agg)

	require.NoError(t, agg.Adjust("i1", 2, prices, at))
	require.Equal(t, map[string]int{"i1": 3}, agg.Lines)
	requireTotal(t, "25.50", agg)

	require.NoError(t, agg.Adjust("i1", -5, prices, at))
	require.Empty(t, agg.Lines)
	require.True(t, agg.IsEmpty())
	requireTotal(t, "0", agg)
	require.Equal(t, uint64(3), agg.Version)
	require.Equal(t, at, agg.UpdatedAt)
}

func TestAdjust_TwoItems(t *testing.T) {
	prices := priceMap{"i1": dec("5.00"), "i2": dec("3.25")}
	agg := Empty("t2")

	require.NoError(t, agg.Adjust("i1", 1, prices, time.Time{}))
	require.NoError(t, agg.Adjust("i2", 1, prices, time.Time{}))
	requireTotal(t, "8.25", agg)
	require.Equal(t, []Line{{ItemID: "i1", Quantity: 1}, {ItemID: "i2", Quantity: 1}}, agg.SortedLines())
}

func TestAdjust_UnknownItemLeavesAggregateUntouched(t *testing.T) {
	prices := priceMap{"i1": dec("2")}
	agg := Empty("t1")
	require.NoError(t, agg.Adjust("i1", 2, prices, time.Time{}))
	before := agg.Clone()

	err := agg.Adjust("ghost", 1, prices, time.Unix(5, 0))
	require.ErrorIs(t, err, ErrUnknownItem)
	require.Equal(t, before, agg)
}

func TestAdjust_OverflowIsRejected(t *testing.T) {
	prices := priceMap{"i1": dec("1")}
	agg := Empty("t1")
	require.NoError(t, agg.Adjust("i1", math.MaxInt, prices, time.Time{}))

	require.ErrorIs(t, agg.Adjust("i1", 1, prices, time.Time{}), ErrQuantityOverflow)
	require.Equal(t, math.MaxInt, agg.Quantity("i1"))
}

func TestAdjust_RepricesAgainstCurrentLookup(t *testing.T) {
	agg := Empty("t1")
	require.NoError(t, agg.Adjust("i1", 2, priceMap{"i1": dec("4")}, time.Time{}))
	requireTotal(t, "8", agg)

	require.NoError(t, agg.Adjust("i2", 1, priceMap{"i1": dec("5"), "i2": dec("1")}, time.Time{}))
	requireTotal(t, "11", agg)
}

func TestAdjust_RandomDeltasKeepInvariants(t *testing.T) {
	prices := priceMap{"a": dec("1.10"), "b": dec("2.35"), "c": dec("0")}
	ids := []string{"a", "b", "c"}
	rng := rand.New(rand.NewSource(7))
	agg := Empty("t1")

	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		delta := rng.Intn(7) - 3
		require.NoError(t, agg.Adjust(id, delta, prices, time.Time{}))

		want := decimal.Zero
		for lineID, qty := range agg.Lines {
			require.Positive(t, qty)
			want = want.Add(prices[lineID].Mul(decimal.NewFromInt(int64(qty))))
		}
		require.True(t, want.Equal(agg.Total))
	}
}

func TestSubtractAndRetain(t *testing.T) {
	prices := priceMap{"i1": dec("2"), "i2": dec("3")}
	agg := Empty("t1")
	require.NoError(t, agg.Adjust("i1", 3, prices, time.Time{}))
	require.NoError(t, agg.Adjust("i2", 1, prices, time.Time{}))

	agg.Subtract([]Line{{ItemID: "i1", Quantity: 2}, {ItemID: "i2", Quantity: 1}}, prices, time.Time{})
	require.Equal(t, map[string]int{"i1": 1}, agg.Lines)
	requireTotal(t, "2", agg)

	require.False(t, agg.Retain(prices, time.Time{}))
	require.True(t, agg.Retain(priceMap{"i2": dec("3")}, time.Time{}))
	require.True(t, agg.IsEmpty())
	requireTotal(t, "0", agg)
}

func TestDraftFromAggregate(t *testing.T) {
	prices := priceMap{"i1": dec("8.50"), "i2": dec("1.25")}
	agg := Empty("t1")
	require.NoError(t, agg.Adjust("i2", 2, prices, time.Time{}))
	require.NoError(t, agg.Adjust("i1", 1, prices, time.Time{}))

	draft, err := DraftFromAggregate("o1", agg, prices)
	require.NoError(t, err)
	require.NoError(t, draft.Validate())
	require.Equal(t, "t1", draft.TableID)
	require.Len(t, draft.Lines, 2)
	require.Equal(t, "i1", draft.Lines[0].ItemID)
	require.True(t, dec("11").Equal(draft.Total))

	_, err = DraftFromAggregate("o2", Empty("t1"), prices)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderDraft_Validate(t *testing.T) {
	line := OrderLine{ItemID: "i1", Quantity: 2, PriceAtTime: dec("1.5")}
	require.ErrorIs(t, OrderDraft{TableID: "t1", Lines: []OrderLine{line}, Total: dec("3")}.Validate(), ErrMissingOrderID)
	require.ErrorIs(t, OrderDraft{ID: "o1", Lines: []OrderLine{line}, Total: dec("3")}.Validate(), ErrMissingTableID)
	require.ErrorIs(t, OrderDraft{ID: "o1", TableID: "t1", Total: dec("0")}.Validate(), ErrEmptyOrder)
	require.ErrorIs(t, OrderDraft{ID: "o1", TableID: "t1", Lines: []OrderLine{{ItemID: "i1"}}}.Validate(), ErrInvalidLine)
	require.ErrorIs(t, OrderDraft{ID: "o1", TableID: "t1", Lines: []OrderLine{line}, Total: dec("4")}.Validate(), ErrTotalMismatch)
	require.NoError(t, OrderDraft{ID: "o1", TableID: "t1", Lines: []OrderLine{line}, Total: dec("3.00")}.Validate())
}
