package handlers

import (
	"net/http"
	"strings"

	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReceiptHandler handles receipt generation requests
type ReceiptHandler struct {
	service service.Service
	log     *logrus.Logger
	baseURL string
}

// NewReceiptHandler creates a new ReceiptHandler instance
func NewReceiptHandler(svc service.Service, log *logrus.Logger, baseURL string) *ReceiptHandler {
	return &ReceiptHandler{service: svc, log: log, baseURL: strings.TrimRight(baseURL, "/")}
}

// Generate renders a receipt for one address's orders on a day
func (h *ReceiptHandler) Generate(c *gin.Context) {
	var req models.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt format"})
		return
	}

	agent, err := middleware.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	receipt, err := h.service.GenerateReceipt(c.Request.Context(), req.AddressID, req.DriverID, req.Date, agent)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":   receipt.ID,
		"file": h.baseURL + "/media/" + receipt.File,
	})
}

// Purge deletes every stored receipt and its file
func (h *ReceiptHandler) Purge(c *gin.Context) {
	deleted, err := h.service.PurgeReceipts(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
