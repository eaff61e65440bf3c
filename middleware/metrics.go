package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aditwicaksono/warung-pos-api/metrics"
)

// Metrics records request count and duration for every handled request
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.TrackRequest(c.Request.Method, path, c.Writer.Status(), start)
	}
}
