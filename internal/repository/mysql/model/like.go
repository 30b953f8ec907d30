package model

import (
	"time"

	"github.com/Guyuepp/go-social-feed/domain"
)

// Like carries a composite uniqueness constraint on (user_id, post_id); the
// database, not application code, is the final arbiter against duplicates.
type Like struct {
	UserID    string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uq_user_post;index"`
	PostID    string    `gorm:"column:post_id;type:char(36);not null;uniqueIndex:uq_user_post;index"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (Like) TableName() string {
	return "likes"
}

func (m *Like) ToDomain() domain.Like {
	return domain.Like{
		UserID:    m.UserID,
		PostID:    m.PostID,
		CreatedAt: m.CreatedAt,
	}
}

func NewLikeFromDomain(l *domain.Like) *Like {
	return &Like{
		UserID:    l.UserID,
		PostID:    l.PostID,
		CreatedAt: l.CreatedAt,
	}
}
