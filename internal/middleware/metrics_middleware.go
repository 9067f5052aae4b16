package middleware

import (
	"strconv"
	"time"

	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency by route template, so
// /api/products/1 and /api/products/2 share a series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
