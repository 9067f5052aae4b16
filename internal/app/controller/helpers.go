package controller

import (
	"strconv"

	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a numeric path parameter, answering 400 when it is not
// one.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, false
	}
	return uint(id), true
}

type pageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// bindQuery binds query parameters and answers 400 when they do not parse.
// Missing or zero values are left for the service defaults.
func bindQuery(c *gin.Context, q interface{}) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return false
	}
	return true
}

// requireUserID answers 401 when the auth middleware did not run.
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// requireClientID answers 400 when no client id was assigned.
func requireClientID(c *gin.Context) (string, bool) {
	clientID := middleware.GetClientID(c)
	if clientID == "" {
		apperrors.BadRequest(c, apperrors.CartClientRequired, "클라이언트 ID가 필요합니다")
		return "", false
	}
	return clientID, true
}
