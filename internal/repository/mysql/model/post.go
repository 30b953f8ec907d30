package model

import (
	"time"

	"github.com/Guyuepp/go-social-feed/domain"
)

type Post struct {
	ID            string    `gorm:"type:char(36);primaryKey"`
	UserID        string    `gorm:"column:user_id;type:char(36);not null;index"`
	Content       string    `gorm:"type:text;not null"`
	LikesCount    int64     `gorm:"column:likes_count;default:0"`
	CommentsCount int64     `gorm:"column:comments_count;default:0"`
	Version       int64     `gorm:"default:1"`
	CreatedAt     time.Time `gorm:"type:datetime;index"`
	UpdatedAt     time.Time `gorm:"type:datetime"`
}

func (Post) TableName() string {
	return "posts"
}

func (m *Post) ToDomain() domain.Post {
	return domain.Post{
		ID:            m.ID,
		UserID:        m.UserID,
		Content:       m.Content,
		LikesCount:    m.LikesCount,
		CommentsCount: m.CommentsCount,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func NewPostFromDomain(p *domain.Post) *Post {
	return &Post{
		ID:            p.ID,
		UserID:        p.UserID,
		Content:       p.Content,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
