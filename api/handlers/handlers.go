package handlers

import (
	"net/http"
	"strconv"

	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// HealthCheck handles health check requests
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Allo Gaz",
	})
}

// respondError maps service errors to HTTP responses. Validation errors
// come back as a field-to-message object, the shape the dashboard forms
// expect.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	default:
		log.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseID reads the numeric id path parameter, answering 400 on garbage
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an integer query parameter with a default
func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

// queryBool reads a boolean query parameter with a default
func queryBool(c *gin.Context, name string, fallback bool) bool {
	value, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}

// queryBoolPtr reads an optional boolean query parameter
func queryBoolPtr(c *gin.Context, name string) *bool {
	value, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return nil
	}
	return &value
}
