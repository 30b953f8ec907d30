package domain

import (
	"context"
	"time"
)

// NotificationType enumerates the supported notification kinds.
type NotificationType string

const (
	NotificationPostLiked     NotificationType = "post_liked"
	NotificationPostCommented NotificationType = "post_commented"
)

// Notification is a persisted message for a user, created exclusively by the
// notification worker after a job is processed.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Data      map[string]any // Free-form payload, e.g. {"postId": ..., "likedBy": ...}
	Read      bool
	CreatedAt time.Time
}

// NotificationRepository defines the contract for notification persistence.
type NotificationRepository interface {
	// Store persists a new notification and backfills ID and CreatedAt.
	Store(ctx context.Context, n *Notification) error

	// FetchByUser retrieves a user's notifications ordered by creation time
	// descending, together with the total count for pagination.
	FetchByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, int64, error)

	// MarkRead sets read=true. Marking an unknown or already-read
	// notification is a silent no-op.
	MarkRead(ctx context.Context, id string) error

	// CountUnread returns the number of unread notifications for the user.
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// NotificationUsecase defines the business logic contract for notifications.
type NotificationUsecase interface {
	// Create persists a notification with read=false.
	Create(ctx context.Context, userID string, typ NotificationType, data map[string]any) (Notification, error)

	ListForUser(ctx context.Context, userID string, limit, offset int) ([]Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
