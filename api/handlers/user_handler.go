package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/api/middleware"
	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/repository"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles employee account requests
type UserHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc service.Service, log *logrus.Logger) *UserHandler {
	return &UserHandler{service: svc, log: log}
}

// Me returns the authenticated user
func (h *UserHandler) Me(c *gin.Context) {
	user, err := middleware.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser registers a new employee account
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user format"})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUser returns one employee account
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to an employee account
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user format"})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser deactivates an employee account
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDrivers returns every driver account
func (h *UserHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.service.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

// SearchEmployees filters and paginates the employee listing. The caller is
// excluded so an administrator never deactivates their own account from the
// listing.
func (h *UserHandler) SearchEmployees(c *gin.Context) {
	actor, err := middleware.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	params := repository.EmployeeSearchParams{
		Username:       c.Query("username"),
		FirstName:      c.Query("firstName"),
		MiddleName:     c.Query("middleName"),
		LastName:       c.Query("lastName"),
		Mobile:         c.Query("mobile"),
		Email:          c.Query("email"),
		IsActive:       queryBool(c, "isActive", true),
		ExcludeID:      actor.ID,
		OrderBy:        c.Query("orderBy"),
		OrderDirection: queryInt(c, "orderDirection", 1),
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "pageSize", 10),
	}

	users, totalPages, err := h.service.SearchEmployees(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"totalPages": totalPages,
	})
}
