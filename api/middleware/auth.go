package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Elie-50/allo-gaz-lebanon/internal/models"
	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// contextKey is a type for context keys
type contextKey string

// UserContextKey is where the authenticated user is stored
const UserContextKey contextKey = "user"

// AuthLevel is the minimum role a route requires
type AuthLevel int

const (
	LevelAuthenticated AuthLevel = iota
	LevelStaff
	LevelSuperuser
)

// allows reports whether the user satisfies the level
func allows(user *models.User, level AuthLevel) bool {
	switch level {
	case LevelStaff:
		return user.IsStaff || user.IsSuperuser
	case LevelSuperuser:
		return user.IsSuperuser
	default:
		return true
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth validates the access token and enforces the role level
func RequireAuth(svc service.Service, log *logrus.Logger, level AuthLevel) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required. Expected: 'Bearer {token}'",
			})
			c.Abort()
			return
		}

		user, err := svc.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Warn("Invalid access token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if !allows(user, level) {
			log.WithField("user_id", user.ID).Warn("Insufficient permissions")
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Set(string(UserContextKey), user)
		c.Next()
	}
}

// OptionalAuth stores the user when a valid token is present but never
// rejects the request. Used by endpoints that do their own auth checks per
// operation.
func OptionalAuth(svc service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := svc.VerifyAccessToken(c.Request.Context(), token); err == nil {
				c.Set(string(UserContextKey), user)
			}
		}
		c.Next()
	}
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	userVal, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil, errors.New("user not found in context")
	}

	user, ok := userVal.(*models.User)
	if !ok {
		return nil, errors.New("user in context has incorrect type")
	}

	return user, nil
}
