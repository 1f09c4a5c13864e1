package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PhoneHandler handles mobile number requests
type PhoneHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewPhoneHandler creates a new PhoneHandler instance
func NewPhoneHandler(svc service.Service, log *logrus.Logger) *PhoneHandler {
	return &PhoneHandler{service: svc, log: log}
}

// CreatePhoneNumber attaches a mobile number to an address
func (h *PhoneHandler) CreatePhoneNumber(c *gin.Context) {
	var req models.PhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	number, err := h.service.CreatePhoneNumber(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, number)
}

// UpdatePhoneNumber overwrites a mobile number
func (h *PhoneHandler) UpdatePhoneNumber(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.PhoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	number, err := h.service.UpdatePhoneNumber(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, number)
}

// DeletePhoneNumber removes a mobile number
func (h *PhoneHandler) DeletePhoneNumber(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeletePhoneNumber(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
