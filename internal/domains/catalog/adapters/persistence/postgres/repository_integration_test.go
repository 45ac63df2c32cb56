//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pos-server/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("pos_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_ItemLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateItem(ctx, domain.ItemFields{Name: "Burger", Code: "B1", Price: decimal.RequireFromString("8.50"), Category: "mains"})
	require.NoError(t, err)
	_, err = repo.CreateItem(ctx, domain.ItemFields{Name: "Apple pie", Code: "A1", Price: decimal.RequireFromString("4")})
	require.NoError(t, err)

	_, err = repo.CreateItem(ctx, domain.ItemFields{Name: "Other", Code: "B1", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Apple pie", items[0].Name)
	assert.True(t, decimal.RequireFromString("8.50").Equal(items[1].Price))

	updated, err := repo.UpdateItem(ctx, created.ID, domain.ItemFields{Name: "Cheeseburger", Code: "B1", Price: decimal.RequireFromString("9.25")})
	require.NoError(t, err)
	assert.Equal(t, "Cheeseburger", updated.Name)

	_, err = repo.UpdateItem(ctx, "missing", domain.ItemFields{Name: "X", Code: "X"})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, repo.DeleteItem(ctx, created.ID))
	assert.ErrorIs(t, repo.DeleteItem(ctx, created.ID), ports.ErrNotFound)
}

func TestRepository_TableLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	second, err := repo.CreateTable(ctx, domain.TableFields{Number: 2})
	require.NoError(t, err)
	_, err = repo.CreateTable(ctx, domain.TableFields{Number: 1})
	require.NoError(t, err)
	_, err = repo.CreateTable(ctx, domain.TableFields{Number: 2})
	assert.ErrorIs(t, err, ports.ErrDuplicate)

	require.NoError(t, db.Table("tables").Where("id = ?", second.ID).Update("status", "active").Error)
	tables, err := repo.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].Number)
	assert.Equal(t, domain.TableActive, tables[1].Status)

	changed, err := repo.ResetActiveTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	require.NoError(t, repo.DeleteTable(ctx, second.ID))
	assert.ErrorIs(t, repo.DeleteTable(ctx, second.ID), ports.ErrNotFound)
}

func TestRepository_DeleteItemReferencedByOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	item, err := repo.CreateItem(ctx, domain.ItemFields{Name: "Soup", Code: "S1", Price: decimal.NewFromInt(5)})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO orders (id, table_id, total_amount, status, created_at) VALUES ('o1', 't1', 5, 'pending', NOW())`).Error)
	require.NoError(t, db.Exec(`INSERT INTO order_items (order_id, item_id, quantity, price_at_time) VALUES ('o1', ?, 1, 5)`, item.ID).Error)

	assert.ErrorIs(t, repo.DeleteItem(ctx, item.ID), ports.ErrInUse)
}
