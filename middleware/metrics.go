package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/pkg/metrics"
)

// Metrics records request count and latency per route template. Using the
// template instead of the raw path keeps contract ids out of the labels.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
