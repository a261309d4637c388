// internal/interfaces/http/middleware/metrics.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bakehouse-backend/internal/pkg/metrics"
)

// Metrics records request latency by route template
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
