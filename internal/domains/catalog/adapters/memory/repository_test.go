package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
)

func TestDeleteItem_RefusesReferencedItems(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	burger, err := repo.CreateItem(ctx, domain.ItemFields{Name: "Burger", Code: "B1", Price: decimal.RequireFromString("8.50")})
	require.NoError(t, err)
	tea, err := repo.CreateItem(ctx, domain.ItemFields{Name: "Tea", Code: "T1", Price: decimal.NewFromInt(2)})
	require.NoError(t, err)
	repo.WithItemInUse(func(itemID string) bool { return itemID == burger.ID })

	require.ErrorIs(t, repo.DeleteItem(ctx, burger.ID), ports.ErrInUse)
	require.NoError(t, repo.DeleteItem(ctx, tea.ID))
	require.ErrorIs(t, repo.DeleteItem(ctx, "missing"), ports.ErrNotFound)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, burger.ID, items[0].ID)
}

func TestCreate_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	_, err := repo.CreateItem(ctx, domain.ItemFields{Name: "Burger", Code: "B1", Price: decimal.NewFromInt(8)})
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, domain.ItemFields{Name: "Other", Code: "B1", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ports.ErrDuplicate)

	_, err = repo.CreateTable(ctx, domain.TableFields{Number: 3})
	require.NoError(t, err)
	_, err = repo.CreateTable(ctx, domain.TableFields{Number: 3})
	require.ErrorIs(t, err, ports.ErrDuplicate)
}
