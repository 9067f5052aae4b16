package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	"github.com/belugagoods/storefront-backend/internal/clientstate"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type PreferenceController struct {
	preferenceService service.PreferenceService
}

func NewPreferenceController(preferenceService service.PreferenceService) *PreferenceController {
	return &PreferenceController{preferenceService: preferenceService}
}

type UpdatePreferencesRequest struct {
	Theme    string `json:"theme" binding:"omitempty,oneof=light dark"`
	Language string `json:"language" binding:"omitempty,oneof=ko en"`
}

type SearchTermRequest struct {
	Term string `json:"term" binding:"required,max=100"`
}

func (ctrl *PreferenceController) respondError(c *gin.Context, err error) {
	if errors.Is(err, clientstate.ErrInvalidTheme) || errors.Is(err, clientstate.ErrInvalidLanguage) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}
	middleware.GetLoggerFromContext(c).Error("Preference request failed", err, map[string]interface{}{
		"client_id": middleware.GetClientID(c),
	})
	apperrors.InternalError(c, "")
}

// GetPreferences
// GET /api/preferences
func (ctrl *PreferenceController) GetPreferences(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	prefs, err := ctrl.preferenceService.GetPreferences(c.Request.Context(), clientID, c.GetHeader("Accept-Language"))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences
// PUT /api/preferences
func (ctrl *PreferenceController) UpdatePreferences(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	prefs, err := ctrl.preferenceService.UpdatePreferences(c.Request.Context(), clientID, clientstate.Preferences{
		Theme:    req.Theme,
		Language: req.Language,
	})
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetSearchHistory
// GET /api/search-history
func (ctrl *PreferenceController) GetSearchHistory(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	terms, err := ctrl.preferenceService.SearchHistory(c.Request.Context(), clientID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": terms})
}

// AddSearchTerm
// POST /api/search-history
func (ctrl *PreferenceController) AddSearchTerm(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	var req SearchTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	terms, err := ctrl.preferenceService.AddSearchTerm(c.Request.Context(), clientID, req.Term)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": terms})
}

// DeleteSearchHistory removes one term with ?term=, otherwise everything
// DELETE /api/search-history
func (ctrl *PreferenceController) DeleteSearchHistory(c *gin.Context) {
	clientID, ok := requireClientID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if term, ok := c.GetQuery("term"); ok {
		terms, err := ctrl.preferenceService.RemoveSearchTerm(ctx, clientID, term)
		if err != nil {
			ctrl.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"terms": terms})
		return
	}

	if err := ctrl.preferenceService.ClearSearchHistory(ctx, clientID); err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": []string{}})
}
