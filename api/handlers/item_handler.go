package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ItemHandler handles inventory item requests
type ItemHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewItemHandler creates a new ItemHandler instance
func NewItemHandler(svc service.Service, log *logrus.Logger) *ItemHandler {
	return &ItemHandler{service: svc, log: log}
}

// CreateItem registers a new inventory item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req models.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item format"})
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItem returns one item with its sources
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem overwrites an item. Price changes need a superuser.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item format"})
		return
	}

	actor, err := middleware.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), id, &req, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem deactivates an item
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListItems paginates the item catalog. lowStock=true narrows the listing
// to items at or under their reorder limit.
func (h *ItemHandler) ListItems(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 10)
	lowStock := queryBool(c, "lowStock", false)

	items, totalPages, err := h.service.ListItems(c.Request.Context(), page, pageSize, lowStock)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"totalPages": totalPages,
	})
}

// UploadImage stores the item's catalog photo
func (h *ItemHandler) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	defer file.Close()

	item, err := h.service.SaveItemImage(c.Request.Context(), id, storage.SafeName(header.Filename), file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
