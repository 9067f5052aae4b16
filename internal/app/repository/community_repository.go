package repository

import (
	"fmt"

	"github.com/belugagoods/storefront-backend/internal/app/model"
	"github.com/belugagoods/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type PostListQuery struct {
	Search string
	Limit  int
	Offset int
}

type CommunityRepository interface {
	CreatePost(post *model.CommunityPost) error
	GetPostByID(id uint) (*model.CommunityPost, error)
	GetPosts(query PostListQuery) ([]model.CommunityPost, int64, error)
	TogglePostLike(postID, userID uint) (liked bool, likes int, err error)
	CreateComment(comment *model.CommunityComment) error
	GetComments(postID uint) ([]model.CommunityComment, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) CreatePost(post *model.CommunityPost) error {
	logger.Debug("Creating community post", map[string]interface{}{
		"user_id": post.UserID,
		"title":   post.Title,
	})
	if err := r.db.Omit("User", "Comments").Create(post).Error; err != nil {
		logger.Error("Failed to create community post", err, map[string]interface{}{
			"user_id": post.UserID,
		})
		return err
	}
	return nil
}

func (r *communityRepository) GetPostByID(id uint) (*model.CommunityPost, error) {
	var post model.CommunityPost
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find community post", err, map[string]interface{}{
				"post_id": id,
			})
		}
		return nil, err
	}
	return &post, nil
}

func (r *communityRepository) GetPosts(query PostListQuery) ([]model.CommunityPost, int64, error) {
	db := r.db.Model(&model.CommunityPost{})
	if query.Search != "" {
		like := fmt.Sprintf("%%%s%%", query.Search)
		db = db.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		logger.Error("Failed to count community posts", err)
		return nil, 0, err
	}

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	if query.Offset > 0 {
		db = db.Offset(query.Offset)
	}

	var posts []model.CommunityPost
	if err := db.Preload("User").Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		logger.Error("Failed to list community posts", err)
		return nil, 0, err
	}
	return posts, total, nil
}

// TogglePostLike 게시글 좋아요 토글
func (r *communityRepository) TogglePostLike(postID, userID uint) (bool, int, error) {
	var liked bool
	var post model.CommunityPost
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		// 이미 눌렀으면 취소
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := -1
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.PostLike{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = 1
			liked = true
		}

		if err := tx.Model(&model.CommunityPost{}).
			Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes + ?", delta)).
			Error; err != nil {
			return err
		}

		return tx.Select("likes").First(&post, postID).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, post.Likes, nil
}

// CreateComment 댓글 작성 (게시글 댓글 수 증가)
func (r *communityRepository) CreateComment(comment *model.CommunityComment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.CommunityPost{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Omit("User").Create(comment).Error; err != nil {
			logger.Error("Failed to create comment", err, map[string]interface{}{
				"post_id": comment.PostID,
				"user_id": comment.UserID,
			})
			return err
		}
		return nil
	})
}

func (r *communityRepository) GetComments(postID uint) ([]model.CommunityComment, error) {
	var comments []model.CommunityComment
	if err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error; err != nil {
		logger.Error("Failed to list comments", err, map[string]interface{}{
			"post_id": postID,
		})
		return nil, err
	}
	return comments, nil
}
