package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/srvalle/contract-pro/pkg/logger"
)

// Health and scrape endpoints are logged at debug level only
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger writes one access log line per request. Rendered
// documents are large, so the response size and type are included.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path

		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if route := c.FullPath(); route != "" && route != path {
			attrs = append(attrs, "route", route)
		}
		if lang := c.Query("lang"); lang != "" {
			attrs = append(attrs, "lang", lang)
		}
		if size := c.Writer.Size(); size > 0 {
			attrs = append(attrs, "bytes", size, "content_type", c.Writer.Header().Get("Content-Type"))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		// Request context carries request, user and contract ids
		log := logger.WithContext(c.Request.Context())

		switch {
		case status >= 500:
			log.Error("request completed", attrs...)
		case status >= 400:
			log.Warn("request completed", attrs...)
		case quietPaths[path]:
			log.Debug("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	}
}
