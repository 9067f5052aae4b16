package controller

import (
	"errors"
	"net/http"

	"github.com/belugagoods/storefront-backend/internal/app/service"
	apperrors "github.com/belugagoods/storefront-backend/internal/errors"
	"github.com/belugagoods/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CommunityController struct {
	communityService service.CommunityService
}

func NewCommunityController(communityService service.CommunityService) *CommunityController {
	return &CommunityController{communityService: communityService}
}

type postListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (ctrl *CommunityController) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPostNotFound) {
		apperrors.NotFound(c, apperrors.PostNotFound, "게시글을 찾을 수 없습니다")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Community request failed", err, nil)
	apperrors.RespondWithDBError(c, err, "게시글")
}

// GetPosts
// GET /api/community/posts?search=&page=&page_size=
func (ctrl *CommunityController) GetPosts(c *gin.Context) {
	var q postListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := ctrl.communityService.ListPosts(q.Search, q.Page, q.PageSize)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPost
// GET /api/community/posts/:id
func (ctrl *CommunityController) GetPost(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := ctrl.communityService.GetPost(id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost
// POST /api/community/posts
func (ctrl *CommunityController) CreatePost(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req service.PostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	post, err := ctrl.communityService.CreatePost(userID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Post created", map[string]interface{}{
		"post_id": post.ID,
		"user_id": userID,
	})
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// TogglePostLike
// POST /api/community/posts/:id/like
func (ctrl *CommunityController) TogglePostLike(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	liked, likes, err := ctrl.communityService.ToggleLike(id, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"liked": liked,
		"likes": likes,
	})
}

// GetComments
// GET /api/community/posts/:id/comments
func (ctrl *CommunityController) GetComments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := ctrl.communityService.ListComments(id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// CreateComment
// POST /api/community/posts/:id/comments
func (ctrl *CommunityController) CreateComment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	comment, err := ctrl.communityService.CreateComment(id, userID, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}
