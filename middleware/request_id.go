package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/srvalle/contract-pro/pkg/logger"
)

const (
	requestIDHeader    = "X-Request-ID"
	requestIDKey       = "request_id"
	maxRequestIDLength = 128
)

// RequestID tags every request with an id, echoed in the response and
// attached to the request context for logging. A caller-supplied id is
// kept when it is short printable ASCII.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		// Routes acting on one contract carry its id in every log line
		if id := c.Param("id"); id != "" {
			ctx = logger.WithContractID(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID gets the request ID from gin context
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
