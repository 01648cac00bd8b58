package middleware

import (
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys defined in this package,
// preventing collisions with keys from other packages.
type contextKey string

const (
	// loggerCtxKey stores the request-scoped logger in the request context.
	loggerCtxKey = contextKey("logger")
	// userIDKey stores the authenticated user's ID in the request context.
	userIDKey = contextKey("userID")
)

// GetUserIDFromContext retrieves the authenticated user's ID set by AuthMiddleware.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}
