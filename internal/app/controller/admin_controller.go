package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	adminService service.AdminService
	sessions     *middleware.AdminSessions
}

func NewAdminController(adminService service.AdminService, sessions *middleware.AdminSessions) *AdminController {
	return &AdminController{
		adminService: adminService,
		sessions:     sessions,
	}
}

// Login opens an admin session after a password check
// POST /api/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.AdminLoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	if err := ctrl.adminService.VerifyPassword(req.Password); err != nil {
		if errors.Is(err, service.ErrAdminDisabled) {
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminDisabled, "관리자 로그인이 비활성화되어 있습니다")
			return
		}
		log.Warn("Admin login failed", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "비밀번호가 올바르지 않습니다")
		return
	}

	expiresAt, err := ctrl.sessions.Start(c)
	if err != nil {
		log.Error("Failed to start admin session", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Admin logged in", map[string]interface{}{
		"expires_at": expiresAt,
	})
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"expires_at":    expiresAt,
	})
}

// Logout
// POST /api/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	if err := ctrl.sessions.End(c); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to end admin session", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

// Status
// GET /api/admin/status
func (ctrl *AdminController) Status(c *gin.Context) {
	expiresAt, ok := ctrl.sessions.Active(c)
	resp := gin.H{
		"enabled":       ctrl.adminService.Enabled(),
		"authenticated": ok,
	}
	if ok {
		resp["expires_at"] = expiresAt
	}
	c.JSON(http.StatusOK, resp)
}
