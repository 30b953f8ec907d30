package model

import (
	"time"

	"github.com/Guyuepp/go-social-feed/domain"
)

type Notification struct {
	ID        string         `gorm:"type:char(36);primaryKey"`
	UserID    string         `gorm:"column:user_id;type:char(36);not null;index:idx_user_read"`
	Type      string         `gorm:"type:varchar(30);not null"`
	Data      map[string]any `gorm:"type:json;serializer:json"`
	Read      bool           `gorm:"default:false;index:idx_user_read"`
	CreatedAt time.Time      `gorm:"type:datetime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (m *Notification) ToDomain() domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Data:      m.Data,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func NewNotificationFromDomain(n *domain.Notification) *Notification {
	return &Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Data:      n.Data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
