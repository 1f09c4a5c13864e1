package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles order and exchange rate requests
type OrderHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(svc service.Service, log *logrus.Logger) *OrderHandler {
	return &OrderHandler{service: svc, log: log}
}

// CreateOrder places an order, reserving stock
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order format"})
		return
	}

	actor, err := middleware.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns one order with its item
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder rewrites an order, reconciling the stock difference
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order format"})
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder soft-deletes an undelivered order and restores its stock
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkDelivered transitions an address's pending orders for a day
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	var req models.MarkDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.AddressID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"address_id": "address_id is required"})
		return
	}
	if req.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"date": "date is required"})
		return
	}

	updated, err := h.service.MarkDelivered(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// ListOrders pages through delivered orders in a date window, or through
// all of one address's orders when address is given.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := service.OrdersParams{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		AddressID: uint(queryInt(c, "address", 0)),
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "pageSize", 10),
	}

	page, err := h.service.PaginatedOrders(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetExchangeRate returns the current USD to LBP rate
func (h *OrderHandler) GetExchangeRate(c *gin.Context) {
	rate, err := h.service.GetExchangeRate(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

// SetExchangeRate overwrites the USD to LBP rate
func (h *OrderHandler) SetExchangeRate(c *gin.Context) {
	var req models.ExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"rate": "a positive rate is required"})
		return
	}

	rate, err := h.service.SetExchangeRate(c.Request.Context(), *req.Rate)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}
