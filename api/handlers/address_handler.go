package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"
	"github.com/Elie-50/allo-gaz-lebanon/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AddressHandler handles address requests
type AddressHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewAddressHandler creates a new AddressHandler instance
func NewAddressHandler(svc service.Service, log *logrus.Logger) *AddressHandler {
	return &AddressHandler{service: svc, log: log}
}

// CreateAddress attaches a new address to a customer
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
		return
	}

	address, err := h.service.CreateAddress(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

// GetAddress returns one address with its mobile numbers
func (h *AddressHandler) GetAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	address, err := h.service.GetAddress(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// UpdateAddress overwrites an address
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
		return
	}

	address, err := h.service.UpdateAddress(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, address)
}

// DeleteAddress removes an address and its mobile numbers
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage stores a photo of the address building
func (h *AddressHandler) UploadImage(c *gin.Context) {
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

	address, err := h.service.SaveAddressImage(c.Request.Context(), id, storage.SafeName(header.Filename), file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, address)
}
