package domain

import (
	"context"
	"time"
)

// NotificationJob is the ephemeral message handed to the job queue. It is
// never persisted itself; persistence happens only in the resulting
// Notification row.
type NotificationJob struct {
	UserID string           `json:"userId"`
	Type   NotificationType `json:"type"`
	Data   map[string]any   `json:"data"`
}

// JobOptions configures delivery for an enqueued job.
type JobOptions struct {
	// Attempts is the maximum number of deliveries before the job is
	// dead-lettered.
	Attempts int
	// BackoffDelay is the delay before the first retry; it doubles on each
	// subsequent retry.
	BackoffDelay time.Duration
}

// QueuedJob is the delivery envelope a consumer receives. Attempts counts
// deliveries including the current one.
type QueuedJob struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Type        NotificationType `json:"type"`
	Data        map[string]any   `json:"data"`
	Attempts    int              `json:"attempts"`
	MaxAttempts int              `json:"maxAttempts"`
	BackoffMs   int64            `json:"backoffMs"`
	EnqueuedAt  time.Time        `json:"enqueuedAt"`

	// Receipt is an opaque delivery handle used by Ack/Nack.
	Receipt string `json:"-"`
}

// JobQueue is a durable, at-least-once work queue. A dequeued job is held by
// a single consumer until acked or nacked; consumers must tolerate duplicate
// deliveries.
type JobQueue interface {
	// Enqueue submits a job for processing.
	Enqueue(ctx context.Context, job NotificationJob, opts JobOptions) error

	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*QueuedJob, error)

	// Ack marks the job as successfully processed.
	Ack(ctx context.Context, job *QueuedJob) error

	// Nack reports a failed delivery: the job is rescheduled with exponential
	// backoff, or dead-lettered once its attempts are exhausted.
	Nack(ctx context.Context, job *QueuedJob, cause error) error
}
