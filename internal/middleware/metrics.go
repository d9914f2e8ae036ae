package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"safeguide/internal/metrics"
)

// RequestMetrics counts every handled request by route template, method
// and status.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
