package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SourceHandler handles purchase source requests
type SourceHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewSourceHandler creates a new SourceHandler instance
func NewSourceHandler(svc service.Service, log *logrus.Logger) *SourceHandler {
	return &SourceHandler{service: svc, log: log}
}

// CreateSource registers a supplier offering for an item
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req models.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source format"})
		return
	}

	source, err := h.service.CreateSource(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

// GetSource returns one source
func (h *SourceHandler) GetSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	source, err := h.service.GetSource(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// UpdateSource overwrites a source
func (h *SourceHandler) UpdateSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source format"})
		return
	}

	source, err := h.service.UpdateSource(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// DeleteSource deactivates a source
func (h *SourceHandler) DeleteSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteSource(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
