package mysql

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/repository/mysql/model"
)

type notificationRepository struct {
	DB *gorm.DB
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

// NewNotificationRepository will create an implementation of domain.NotificationRepository
func NewNotificationRepository(db *gorm.DB) *notificationRepository {
	return &notificationRepository{db}
}

func (m *notificationRepository) Store(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.NewString()
	notificationModel := model.NewNotificationFromDomain(n)
	result := m.DB.WithContext(ctx).Create(notificationModel)
	if result.Error != nil {
		return result.Error
	}
	n.CreatedAt = notificationModel.CreatedAt
	return nil
}

func (m *notificationRepository) FetchByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, int64, error) {
	var total int64
	err := m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	err = m.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.Notification, len(notifications))
	for i := range notifications {
		res[i] = notifications[i].ToDomain()
	}
	return res, total, nil
}

// MarkRead is a silent no-op for unknown or already-read notifications.
func (m *notificationRepository) MarkRead(ctx context.Context, id string) error {
	return m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (m *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}
