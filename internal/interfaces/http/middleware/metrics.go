package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"givora.backend/internal/infrastructure/metrics"
)

// MetricsMiddleware records request count and latency per matched route
func MetricsMiddleware(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath keeps label cardinality bounded by the route table
		recorder.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
