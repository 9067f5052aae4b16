package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDHeader = "X-Client-ID"
	ClientIDCookie = "client_id"
	ClientIDKey    = "client_id"

	clientIDMaxAge = 365 * 24 * time.Hour
)

// ClientID identifies the browser that owns cart, preference and design
// state. An absent or malformed id is replaced with a fresh uuid, which is
// echoed back as a header and a cookie.
func ClientID(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ClientIDHeader)
		if id == "" {
			id, _ = c.Cookie(ClientIDCookie)
		}
		if id == "" {
			// 브라우저 WebSocket은 헤더를 보낼 수 없음
			id = c.Query(ClientIDCookie)
		}

		if _, err := uuid.Parse(id); err != nil {
			if id != "" {
				GetLoggerFromContext(c).Debug("Replacing malformed client id", map[string]interface{}{
					"client_id": id,
				})
			}
			id = uuid.NewString()
		}

		c.Set(ClientIDKey, id)
		c.Header(ClientIDHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ClientIDCookie, id, int(clientIDMaxAge.Seconds()), "/", "", secureCookie, false)

		c.Next()
	}
}

func GetClientID(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}
