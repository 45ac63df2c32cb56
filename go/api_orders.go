package posserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermapper "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/http/mapper"
	orderports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
)

const idempotencyKeyHeader = "Idempotency-Key"

type ackResponse struct {
	Message string `json:"message"`
}

// OrdersAPI exposes the persistence gateway itself on the backend routes.
type OrdersAPI struct {
	gateway orderports.Gateway
	newID   func() string
}

// NewOrdersAPI creates an OrdersAPI. Orders posted without an id or an
// Idempotency-Key header get a UUID.
func NewOrdersAPI(gateway orderports.Gateway) OrdersAPI {
	return OrdersAPI{gateway: gateway, newID: uuid.NewString}
}

// Post /api/orders
// Commits an order and marks its table active
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	var payload ordermapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if payload.ID == "" {
		payload.ID = c.GetHeader(idempotencyKeyHeader)
	}
	draft, err := ordermapper.ToDraft(payload, api.newID)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := draft.Validate(); err != nil {
		backendResponder.RespondError(c, fmt.Errorf("%w: %w", apierrors.ErrValidation, err))
		return
	}
	record, err := api.gateway.CommitOrder(c.Request.Context(), draft)
	if err != nil {
		backendResponder.RespondError(c, apierrors.NewPersistenceError("commit order", err))
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromOrderRecord(record))
}

// Delete /api/orders/:tableId
// Marks a table idle
func (api *OrdersAPI) ClearTable(c *gin.Context) {
	if err := api.gateway.ClearTable(c.Request.Context(), c.Param("tableId")); err != nil {
		backendResponder.RespondError(c, apierrors.NewPersistenceError("clear table", err))
		return
	}
	c.JSON(http.StatusOK, ackResponse{Message: "Table cleared"})
}
