package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API.
type ApiHandleFunctions struct {
	CatalogAPI CatalogAPI
	OrdersAPI  OrdersAPI
	SessionAPI SessionAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"ListItems", http.MethodGet, "/api/items", h.CatalogAPI.ListItems},
		{"CreateItem", http.MethodPost, "/api/items", h.CatalogAPI.CreateItem},
		{"UpdateItem", http.MethodPut, "/api/items/:id", h.CatalogAPI.UpdateItem},
		{"DeleteItem", http.MethodDelete, "/api/items/:id", h.CatalogAPI.DeleteItem},
		{"ListTables", http.MethodGet, "/api/tables", h.CatalogAPI.ListTables},
		{"CreateTable", http.MethodPost, "/api/tables", h.CatalogAPI.CreateTable},
		{"DeleteTable", http.MethodDelete, "/api/tables/:id", h.CatalogAPI.DeleteTable},
		{"CreateOrder", http.MethodPost, "/api/orders", h.OrdersAPI.CreateOrder},
		{"ClearTable", http.MethodDelete, "/api/orders/:tableId", h.OrdersAPI.ClearTable},
		{"GetCatalog", http.MethodGet, "/api/session/catalog", h.SessionAPI.GetCatalog},
		{"RefreshCatalog", http.MethodPost, "/api/session/refresh", h.SessionAPI.RefreshCatalog},
		{"ListOrders", http.MethodGet, "/api/session/orders", h.SessionAPI.ListOrders},
		{"GetOrder", http.MethodGet, "/api/session/tables/:tableId/order", h.SessionAPI.GetOrder},
		{"AdjustLine", http.MethodPost, "/api/session/tables/:tableId/order/lines", h.SessionAPI.AdjustLine},
		{"ClearOrder", http.MethodDelete, "/api/session/tables/:tableId/order", h.SessionAPI.ClearOrder},
		{"Checkout", http.MethodPost, "/api/session/tables/:tableId/order/checkout", h.SessionAPI.Checkout},
	}
}
