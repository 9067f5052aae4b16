package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 사용자 ID
	Username     string         `gorm:"size:50;uniqueIndex;not null" json:"username"` // 로그인 아이디
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`   // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                            // 비밀번호 해시
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`                // 관리자 여부
	Points       int            `gorm:"default:0" json:"points"`                      // 적립 포인트
	CreatedAt    time.Time      `json:"created_at"`                                   // 생성 시각
	UpdatedAt    time.Time      `json:"updated_at"`                                   // 수정 시각
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 삭제 시각(소프트 삭제)
}

func (User) TableName() string {
	return "users"
}

// Role is derived from IsAdmin.
func (u *User) Role() UserRole {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
