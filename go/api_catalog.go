package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/go-gin-pos-server/internal/domains/catalog/ports"
)

// CatalogAPI serves the backend catalog routes. Reads go straight to the
// repository of record; writes go through the editing flow so the local
// snapshot follows every change.
type CatalogAPI struct {
	service catalogports.Service
	repo    catalogports.Repository
}

// NewCatalogAPI creates a CatalogAPI.
func NewCatalogAPI(service catalogports.Service, repo catalogports.Repository) CatalogAPI {
	return CatalogAPI{service: service, repo: repo}
}

// Get /api/items
// Lists menu items
func (api *CatalogAPI) ListItems(c *gin.Context) {
	items, err := api.repo.ListItems(c.Request.Context())
	if err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainItems(items))
}

// Post /api/items
// Creates a menu item
func (api *CatalogAPI) CreateItem(c *gin.Context) {
	var payload catalogmapper.ItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	fields, err := catalogmapper.ToItemFields(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.CreateItem(c.Request.Context(), fields)
	if err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromDomainItem(*item))
}

// Put /api/items/:id
// Replaces a menu item
func (api *CatalogAPI) UpdateItem(c *gin.Context) {
	var payload catalogmapper.ItemInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	fields, err := catalogmapper.ToItemFields(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	item, err := api.service.UpdateItem(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainItem(*item))
}

// Delete /api/items/:id
// Deletes a menu item
func (api *CatalogAPI) DeleteItem(c *gin.Context) {
	if err := api.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Message: "Item deleted"})
}

// Get /api/tables
// Lists tables
func (api *CatalogAPI) ListTables(c *gin.Context) {
	tables, err := api.repo.ListTables(c.Request.Context())
	if err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromDomainTables(tables))
}

// Post /api/tables
// Creates an idle table
func (api *CatalogAPI) CreateTable(c *gin.Context) {
	var payload catalogmapper.TableInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	fields, err := catalogmapper.ToTableFields(payload)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	table, err := api.service.CreateTable(c.Request.Context(), fields)
	if err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromDomainTable(*table))
}

// Delete /api/tables/:id
// Deletes a table
func (api *CatalogAPI) DeleteTable(c *gin.Context) {
	if err := api.service.DeleteTable(c.Request.Context(), c.Param("id")); err != nil {
		backendResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ackResponse{Message: "Table deleted"})
}
