package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
	ordermapper "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/http/mapper"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

// SessionAPI serves the operator session: the cached catalog and the running
// orders of every table. Backend failures surface as 502.
type SessionAPI struct {
	catalog catalogports.Service
	orders  orderports.Service
}

// NewSessionAPI creates a SessionAPI.
func NewSessionAPI(catalog catalogports.Service, orders orderports.Service) SessionAPI {
	return SessionAPI{catalog: catalog, orders: orders}
}

// Get /api/session/catalog
// Returns the current catalog snapshot
func (api *SessionAPI) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, catalogmapper.FromSnapshot(api.catalog.Snapshot(c.Request.Context())))
}

// Post /api/session/refresh
// Reloads the catalog from the backend
func (api *SessionAPI) RefreshCatalog(c *gin.Context) {
	snapshot, err := api.catalog.Refresh(c.Request.Context())
	if err != nil {
		sessionResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromSnapshot(snapshot))
}

// Get /api/session/orders
// Lists the running orders
func (api *SessionAPI) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	aggs := api.orders.ListAggregates(ctx)
	c.JSON(http.StatusOK, ordermapper.FromAggregates(aggs, api.catalog.Snapshot(ctx)))
}

// Get /api/session/tables/:tableId/order
// Returns the running order of a table
func (api *SessionAPI) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	agg := api.orders.GetAggregate(ctx, c.Param("tableId"))
	c.JSON(http.StatusOK, ordermapper.FromAggregate(agg, api.catalog.Snapshot(ctx)))
}

// Post /api/session/tables/:tableId/order/lines
// Moves the quantity of one item
func (api *SessionAPI) AdjustLine(c *gin.Context) {
	var payload ordermapper.LineInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if payload.Delta == nil {
		respondBadRequest(c, ordermapper.ErrMissingDelta)
		return
	}
	ctx := c.Request.Context()
	agg, err := api.orders.AdjustQuantity(ctx, c.Param("tableId"), payload.ItemID, *payload.Delta)
	if err != nil {
		sessionResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromAggregate(agg, api.catalog.Snapshot(ctx)))
}

// Delete /api/session/tables/:tableId/order
// Clears the running order and frees the table
func (api *SessionAPI) ClearOrder(c *gin.Context) {
	if err := api.orders.ClearOrder(c.Request.Context(), c.Param("tableId")); err != nil {
		sessionResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Message: "Table cleared"})
}

// Post /api/session/tables/:tableId/order/checkout
// Commits the running order to the backend
func (api *SessionAPI) Checkout(c *gin.Context) {
	record, err := api.orders.Checkout(c.Request.Context(), c.Param("tableId"))
	if err != nil {
		sessionResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromOrderRecord(record))
}
