package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the Gin context key carrying the per-request ID that the
// logging middleware and the error handler attach to every log line.
const RequestIDKey = "request_id"

// RequestID assigns a unique ID to each request, honoring an incoming
// X-Request-ID header so IDs propagate across services.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
