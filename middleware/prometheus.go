package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dashboard-service/metrics"
)

// Prometheus records request counts and latency per route.
func Prometheus() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		metrics.HttpRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, path).Observe(duration)
	})
}
