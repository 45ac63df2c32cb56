//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	posserver "github.com/Apurer/go-gin-pos-server/go"
	"github.com/Apurer/go-gin-pos-server/internal/app/api"
	catalogmemory "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/workflows"
	pacttest "github.com/Apurer/go-gin-pos-server/test/pact"
)

func TestBackendProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedCatalog(t)
			}
			return nil, nil
		},
		pacttest.StateTableMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	repo   *catalogmemory.Repository
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	repo := catalogmemory.NewRepository()
	backend := api.Backend{Kind: api.BackendMemory, Catalog: repo, Orders: ordersmemory.NewGateway(repo)}
	handlers, _ := api.NewHandlers(backend, ordersworkflows.NewInlineCheckout(backend.Orders), nil)

	router := gin.New()
	router.Use(gin.Recovery())
	router = posserver.NewRouterWithGinEngine(router, handlers)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{repo: repo, server: server}
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	items, err := a.repo.ListItems(ctx)
	require.NoError(t, err)
	for _, item := range items {
		_ = a.repo.DeleteItem(ctx, item.ID)
	}
	tables, err := a.repo.ListTables(ctx)
	require.NoError(t, err)
	for _, table := range tables {
		_ = a.repo.DeleteTable(ctx, table.ID)
	}
}

func (a *contractProviderApp) seedCatalog(t testing.TB) {
	t.Helper()
	ctx := context.Background()
	ids := []string{pacttest.ExistingItemID, pacttest.ExistingTableID}
	a.repo.WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	})
	_, err := a.repo.CreateItem(ctx, catalogdomain.ItemFields{
		Name:  pacttest.ExampleItemName,
		Code:  pacttest.ExampleItemCode,
		Price: decimal.RequireFromString(pacttest.ExampleItemPrice),
	})
	require.NoError(t, err)
	_, err = a.repo.CreateTable(ctx, catalogdomain.TableFields{Number: 1})
	require.NoError(t, err)
}
