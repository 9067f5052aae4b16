package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/belugagoods/storefront-backend/config"
	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	adminSessionName = "beluga_admin"
	adminExpiresKey  = "expires_at"
)

// AdminSessions issues the signed cookie that unlocks the admin panel after
// a password login.
type AdminSessions struct {
	store  *sessions.CookieStore
	maxAge time.Duration
	now    func() time.Time
}

func NewAdminSessions(cfg config.AdminConfig) *AdminSessions {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	return &AdminSessions{store: store, maxAge: cfg.SessionMaxAge, now: time.Now}
}

// Start writes a fresh session cookie and returns when it expires.
func (a *AdminSessions) Start(c *gin.Context) (time.Time, error) {
	session, _ := a.store.Get(c.Request, adminSessionName)
	expiresAt := a.now().Add(a.maxAge)
	session.Values[adminExpiresKey] = expiresAt.Unix()
	if err := session.Save(c.Request, c.Writer); err != nil {
		return time.Time{}, fmt.Errorf("save admin session: %w", err)
	}
	return expiresAt, nil
}

// End expires the cookie in the browser.
func (a *AdminSessions) End(c *gin.Context) error {
	session, _ := a.store.Get(c.Request, adminSessionName)
	delete(session.Values, adminExpiresKey)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		return fmt.Errorf("clear admin session: %w", err)
	}
	return nil
}

// Active reports whether the request carries an unexpired admin session.
func (a *AdminSessions) Active(c *gin.Context) (time.Time, bool) {
	session, err := a.store.Get(c.Request, adminSessionName)
	if err != nil {
		return time.Time{}, false
	}
	raw, ok := session.Values[adminExpiresKey].(int64)
	if !ok {
		return time.Time{}, false
	}
	expiresAt := time.Unix(raw, 0)
	if !a.now().Before(expiresAt) {
		return time.Time{}, false
	}
	return expiresAt, true
}

// RequireAdmin admits an admin session cookie or a JWT whose user is an
// admin.
func (a *AdminSessions) RequireAdmin(auth *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := a.Active(c); ok {
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)
		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Admin access without session", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "관리자 로그인이 필요합니다")
			c.Abort()
			return
		}

		claims, code, err := auth.verify(c, token)
		if err != nil {
			errors.RespondWithError(c, http.StatusUnauthorized, code, "유효하지 않은 인증 토큰입니다")
			c.Abort()
			return
		}
		if model.UserRole(claims.Role) != model.RoleAdmin {
			log.Warn("Non-admin user rejected", map[string]interface{}{
				"user_id": claims.UserID,
				"path":    c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "관리자만 접근할 수 있습니다")
			c.Abort()
			return
		}

		setIdentity(c, token, claims)
		c.Next()
	}
}
