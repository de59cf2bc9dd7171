package middleware

import (
	"strconv"
	"time"

	"rental-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request latency per route template, not per raw path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
