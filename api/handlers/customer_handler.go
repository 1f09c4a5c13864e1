package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CustomerHandler handles customer requests
type CustomerHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewCustomerHandler creates a new CustomerHandler instance
func NewCustomerHandler(svc service.Service, log *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{service: svc, log: log}
}

// CreateCustomer registers a new customer
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer format"})
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomer returns one customer with addresses and mobile numbers
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer overwrites a customer's details
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer format"})
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer deactivates a customer
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchCustomers filters, orders, and paginates the customer listing
func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	params := repository.CustomerSearchParams{
		ID:             c.Query("id"),
		FirstName:      c.Query("firstName"),
		MiddleName:     c.Query("middleName"),
		LastName:       c.Query("lastName"),
		Mobile:         c.Query("mobile"),
		Email:          c.Query("email"),
		IsActive:       queryBool(c, "isActive", true),
		OrderBy:        c.Query("orderBy"),
		OrderDirection: queryInt(c, "orderDirection", 1),
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "pageSize", 10),
	}

	customers, totalPages, err := h.service.SearchCustomers(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customers":  customers,
		"totalPages": totalPages,
	})
}
