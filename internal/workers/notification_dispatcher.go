package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

// Default delivery policy for notification jobs: three attempts, exponential
// backoff starting at one second.
const (
	DefaultJobAttempts = 3
	DefaultJobBackoff  = time.Second
)

// NotificationDispatcher bridges the in-process event bus to the durable job
// queue. From the moment Enqueue returns, retry responsibility belongs to the
// queue; the narrow crash window between the like commit and the enqueue is
// an accepted trade-off over a distributed transaction.
type NotificationDispatcher struct {
	queue domain.JobQueue
	opts  domain.JobOptions
}

func NewNotificationDispatcher(q domain.JobQueue) *NotificationDispatcher {
	return &NotificationDispatcher{
		queue: q,
		opts: domain.JobOptions{
			Attempts:     DefaultJobAttempts,
			BackoffDelay: DefaultJobBackoff,
		},
	}
}

// Register subscribes the dispatcher to the events it forwards.
func (d *NotificationDispatcher) Register(bus domain.EventBus) {
	bus.Subscribe(domain.EventPostLiked, d.HandlePostLiked)
}

func (d *NotificationDispatcher) HandlePostLiked(ctx context.Context, payload any) error {
	evt, ok := payload.(domain.PostLikedEvent)
	if !ok {
		logrus.Errorf("unexpected payload type for %s: %T", domain.EventPostLiked, payload)
		return nil
	}

	job := domain.NotificationJob{
		UserID: evt.PostOwnerID,
		Type:   domain.NotificationPostLiked,
		Data: map[string]any{
			"postId":  evt.PostID,
			"likedBy": evt.UserID,
		},
	}

	if err := d.queue.Enqueue(ctx, job, d.opts); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  evt.UserID,
		"post_id":  evt.PostID,
		"owner_id": evt.PostOwnerID,
	}).Info("notification job queued")
	return nil
}
