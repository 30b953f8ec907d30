package notification

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

type Service struct {
	notificationRepo domain.NotificationRepository
}

var _ domain.NotificationUsecase = (*Service)(nil)

// NewService will create a new notification service object
func NewService(n domain.NotificationRepository) *Service {
	return &Service{
		notificationRepo: n,
	}
}

func (s *Service) Create(ctx context.Context, userID string, typ domain.NotificationType, data map[string]any) (domain.Notification, error) {
	n := domain.Notification{
		UserID: userID,
		Type:   typ,
		Data:   data,
		Read:   false,
	}
	if err := s.notificationRepo.Store(ctx, &n); err != nil {
		return domain.Notification{}, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"notification_id": n.ID,
		"type":            typ,
	}).Info("notification created")
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, int64, error) {
	return s.notificationRepo.FetchByUser(ctx, userID, limit, offset)
}

// MarkRead is no-op-safe: marking an unknown or already-read notification
// succeeds silently.
func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
