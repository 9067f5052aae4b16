package service

import (
	"errors"
	"strings"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/internal/app/repository"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type PostInput struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"max=5000"`
	ImageURLs   []string `json:"image_urls" binding:"max=10,dive,url"`
}

type CommentInput struct {
	Content string `json:"content" binding:"required,max=1000"`
}

type PostPage struct {
	Posts    []model.CommunityPost `json:"posts"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

type CommunityService interface {
	ListPosts(search string, page, pageSize int) (*PostPage, error)
	GetPost(id uint) (*model.CommunityPost, error)
	CreatePost(userID uint, input PostInput) (*model.CommunityPost, error)
	ToggleLike(postID, userID uint) (bool, int, error)
	ListComments(postID uint) ([]model.CommunityComment, error)
	CreateComment(postID, userID uint, input CommentInput) (*model.CommunityComment, error)
}

type communityService struct {
	repo repository.CommunityRepository
}

func NewCommunityService(repo repository.CommunityRepository) CommunityService {
	return &communityService{repo: repo}
}

func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func (s *communityService) ListPosts(search string, page, pageSize int) (*PostPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	posts, total, err := s.repo.GetPosts(repository.PostListQuery{
		Search: strings.TrimSpace(search),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.CommunityPost{}
	}
	return &PostPage{Posts: posts, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *communityService) GetPost(id uint) (*model.CommunityPost, error) {
	post, err := s.repo.GetPostByID(id)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return post, nil
}

func (s *communityService) CreatePost(userID uint, input PostInput) (*model.CommunityPost, error) {
	post := &model.CommunityPost{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURLs:   pq.StringArray(input.ImageURLs),
	}
	if post.ImageURLs == nil {
		post.ImageURLs = pq.StringArray{}
	}
	if err := s.repo.CreatePost(post); err != nil {
		return nil, err
	}

	logger.Info("Community post created", map[string]interface{}{
		"post_id": post.ID,
		"user_id": userID,
	})
	return post, nil
}

func (s *communityService) ToggleLike(postID, userID uint) (bool, int, error) {
	liked, likes, err := s.repo.TogglePostLike(postID, userID)
	if err != nil {
		return false, 0, notFoundAs(err, ErrPostNotFound)
	}
	return liked, likes, nil
}

func (s *communityService) ListComments(postID uint) ([]model.CommunityComment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	comments, err := s.repo.GetComments(postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.CommunityComment{}
	}
	return comments, nil
}

func (s *communityService) CreateComment(postID, userID uint, input CommentInput) (*model.CommunityComment, error) {
	comment := &model.CommunityComment{
		PostID:  postID,
		UserID:  userID,
		Content: strings.TrimSpace(input.Content),
	}
	if err := s.repo.CreateComment(comment); err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return comment, nil
}
