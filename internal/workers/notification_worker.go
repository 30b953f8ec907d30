package workers

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

// dequeueRetryDelay paces the consume loop after a broken dequeue, so an
// unreachable queue does not turn the loop into a hot error spin.
const dequeueRetryDelay = time.Second

// NotificationWorker consumes notification jobs one at a time per slot and
// persists the resulting Notification row. A job is acked only after the row
// is committed; any failure nacks it back to the queue, which reschedules or
// dead-letters per its policy. Duplicate deliveries may produce duplicate
// rows; at-least-once makes that a tolerated, visible side effect.
type NotificationWorker struct {
	queue         domain.JobQueue
	notifications domain.NotificationUsecase
	retryDelay    time.Duration
}

func NewNotificationWorker(q domain.JobQueue, n domain.NotificationUsecase) *NotificationWorker {
	return &NotificationWorker{
		queue:         q,
		notifications: n,
		retryDelay:    dequeueRetryDelay,
	}
}

func (w *NotificationWorker) Start(ctx context.Context) {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logrus.Info("shutting down NotificationWorker")
				return
			}
			logrus.Errorf("failed to dequeue notification job: %v", err)
			select {
			case <-ctx.Done():
				logrus.Info("shutting down NotificationWorker")
				return
			case <-time.After(w.retryDelay):
			}
			continue
		}

		w.process(ctx, job)
	}
}

func (w *NotificationWorker) process(ctx context.Context, job *domain.QueuedJob) {
	log := logrus.WithFields(logrus.Fields{
		"job_id":  job.ID,
		"user_id": job.UserID,
		"type":    job.Type,
		"attempt": job.Attempts,
	})
	log.Info("processing notification job")

	_, err := w.notifications.Create(ctx, job.UserID, job.Type, job.Data)
	if err != nil {
		log.Errorf("failed to create notification: %v", err)
		if nackErr := w.queue.Nack(ctx, job, err); nackErr != nil {
			log.Errorf("failed to nack job: %v", nackErr)
		}
		return
	}

	if err := w.queue.Ack(ctx, job); err != nil {
		// The row is committed; a failed ack means the queue may redeliver
		// and produce a duplicate row, which the design tolerates.
		log.Errorf("failed to ack job: %v", err)
		return
	}
	log.Info("notification job processed")
}
