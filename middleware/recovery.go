package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/pkg/logger"
	"github.com/srvalle/contract-pro/pkg/metrics"
)

// Recovery turns a handler panic into a 500 response. A panic after the
// response has started (a PDF half streamed, say) only aborts the chain.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.PanicsRecovered.WithLabelValues(route).Inc()

			logger.Error(c.Request.Context(), "panic recovered",
				"error", fmt.Sprint(r),
				"method", c.Request.Method,
				"route", route,
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": GetRequestID(c),
			})
		}()

		c.Next()
	}
}
