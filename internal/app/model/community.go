package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CommunityPost 커뮤니티 게시글 (작품 자랑/후기)
type CommunityPost struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURLs    pq.StringArray `gorm:"type:text" json:"image_urls"`
	Likes        int            `gorm:"default:0" json:"likes"`         // post_likes 행 수와 동일
	CommentCount int            `gorm:"default:0" json:"comment_count"` // community_comments 행 수와 동일
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User     *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments []CommunityComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (CommunityPost) TableName() string {
	return "community_posts"
}

type PostLike struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_pair" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_pair" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// CommunityComment 게시글 댓글
type CommunityComment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CommunityComment) TableName() string {
	return "community_comments"
}
