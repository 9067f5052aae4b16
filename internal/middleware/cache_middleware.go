package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/belugagoods/storefront-backend/internal/cache"
	"github.com/belugagoods/storefront-backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

const CacheStatusHeader = "X-Cache"

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheKey is the request path plus its query with keys sorted.
func CacheKey(r *http.Request) string {
	key := r.URL.Path
	if q := r.URL.Query().Encode(); q != "" {
		key += "?" + q
	}
	return key
}

// CacheResponse serves GET JSON responses from store and fills it from
// successful ones.
func CacheResponse(store cache.Cache, ttl time.Duration, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheKey(c.Request)
		if body, ok := store.Get(c.Request.Context(), key); ok {
			m.CacheLookup(true)
			c.Header(CacheStatusHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}
		m.CacheLookup(false)

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header(CacheStatusHeader, "MISS")
		c.Next()

		if rec.Status() == http.StatusOK && rec.body.Len() > 0 {
			store.Set(c.Request.Context(), key, rec.body.Bytes(), ttl)
		}
	}
}

// InvalidateCache drops cached responses under prefixes once a mutation
// succeeds.
func InvalidateCache(store cache.Cache, prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		for _, prefix := range prefixes {
			if err := store.InvalidatePrefix(c.Request.Context(), prefix); err != nil {
				GetLoggerFromContext(c).Error("Failed to invalidate response cache", err, map[string]interface{}{
					"prefix": prefix,
				})
			}
		}
	}
}
