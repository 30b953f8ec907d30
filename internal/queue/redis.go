package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

// Redis key layout for the notifications queue. A job is exactly one JSON
// payload moving between these keys, so LREM by value is exact.
const (
	KeyPending    = "queue:notifications:pending"    // LIST, producers LPUSH
	KeyProcessing = "queue:notifications:processing" // LIST, in-flight deliveries
	KeyInFlight   = "queue:notifications:inflight"   // ZSET, score = redelivery deadline unix ms
	KeyDelayed    = "queue:notifications:delayed"    // ZSET, score = ready-at unix ms
	KeyDead       = "queue:notifications:dead"       // LIST, exhausted jobs
)

const (
	blockTimeout = 5 * time.Second
	promoteBatch = 100

	// inFlightTimeout bounds how long a delivery may sit unacked before it is
	// handed back to pending. Must exceed the longest expected processing
	// time, or a slow consumer races its own redelivery.
	inFlightTimeout = time.Minute
)

// promoteScript atomically moves due jobs from the delayed set back onto the
// pending list, and reclaims in-flight deliveries whose deadline has passed
// (the consumer crashed or stalled before acking). Single script so no job
// can be promoted or reclaimed twice.
var promoteScript = redis.NewScript(`
	local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
	for _, job in ipairs(due) do
		redis.call('ZREM', KEYS[1], job)
		redis.call('LPUSH', KEYS[2], job)
	end
	local stalled = redis.call('ZRANGEBYSCORE', KEYS[3], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
	for _, job in ipairs(stalled) do
		redis.call('ZREM', KEYS[3], job)
		redis.call('LREM', KEYS[4], 1, job)
		redis.call('LPUSH', KEYS[2], job)
	end
	return #due + #stalled
`)

// RedisQueue is a durable, at-least-once job queue on Redis, modeled after
// list-based delayed queues: pending list, per-delivery processing list and
// in-flight deadline set, sorted-set retry schedule and a dead list for
// exhausted jobs.
type RedisQueue struct {
	client redis.Cmdable
}

var _ domain.JobQueue = (*RedisQueue)(nil)

func NewRedisQueue(client redis.Cmdable) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job domain.NotificationJob, opts domain.JobOptions) error {
	queued := domain.QueuedJob{
		ID:          uuid.NewString(),
		UserID:      job.UserID,
		Type:        job.Type,
		Data:        job.Data,
		Attempts:    0,
		MaxAttempts: opts.Attempts,
		BackoffMs:   opts.BackoffDelay.Milliseconds(),
		EnqueuedAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(queued)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, KeyPending, payload).Err()
}

// Dequeue blocks until a job is available or ctx is done. The job is moved to
// the processing list in the same Redis command and registered in the
// in-flight set with a redelivery deadline; a consumer that dies before
// acking has its payload reclaimed to pending once the deadline expires.
func (q *RedisQueue) Dequeue(ctx context.Context) (*domain.QueuedJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := q.promoteDue(ctx); err != nil {
			logrus.Warnf("failed to promote delayed jobs: %v", err)
		}

		payload, err := q.client.BLMove(ctx, KeyPending, KeyProcessing, "RIGHT", "LEFT", blockTimeout).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var job domain.QueuedJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			// Poison payload: drop it to the dead list, never redeliver.
			logrus.Errorf("malformed job payload, dead-lettering: %v", err)
			q.discard(ctx, payload)
			continue
		}

		deadline := time.Now().Add(inFlightTimeout)
		err = q.client.ZAdd(ctx, KeyInFlight, redis.Z{
			Score:  float64(deadline.UnixMilli()),
			Member: payload,
		}).Err()
		if err != nil {
			logrus.Errorf("failed to register in-flight job %s: %v", job.ID, err)
		}

		job.Attempts++
		job.Receipt = payload
		return &job, nil
	}
}

func (q *RedisQueue) Ack(ctx context.Context, job *domain.QueuedJob) error {
	if err := q.client.LRem(ctx, KeyProcessing, 1, job.Receipt).Err(); err != nil {
		return err
	}
	return q.client.ZRem(ctx, KeyInFlight, job.Receipt).Err()
}

// Nack releases a failed delivery: back onto the delayed set with exponential
// backoff, or onto the dead list once attempts are exhausted.
func (q *RedisQueue) Nack(ctx context.Context, job *domain.QueuedJob, cause error) error {
	if err := q.client.LRem(ctx, KeyProcessing, 1, job.Receipt).Err(); err != nil {
		return err
	}
	if err := q.client.ZRem(ctx, KeyInFlight, job.Receipt).Err(); err != nil {
		return err
	}

	if job.Attempts >= job.MaxAttempts {
		logrus.WithFields(logrus.Fields{
			"job_id":   job.ID,
			"user_id":  job.UserID,
			"type":     job.Type,
			"attempts": job.Attempts,
		}).Errorf("job exhausted retries, dead-lettering: %v", cause)
		q.deadLetter(ctx, job.Receipt)
		return nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	delay := backoffDelay(job.BackoffMs, job.Attempts)
	readyAt := time.Now().Add(delay)
	logrus.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"attempts": job.Attempts,
		"retry_in": delay.String(),
	}).Warnf("job delivery failed, scheduling retry: %v", cause)

	return q.client.ZAdd(ctx, KeyDelayed, redis.Z{
		Score:  float64(readyAt.UnixMilli()),
		Member: payload,
	}).Err()
}

func (q *RedisQueue) promoteDue(ctx context.Context) error {
	now := time.Now().UnixMilli()
	keys := []string{KeyDelayed, KeyPending, KeyInFlight, KeyProcessing}
	return promoteScript.Run(ctx, q.client, keys, now, promoteBatch).Err()
}

// discard removes a malformed payload from the processing list and
// dead-letters it.
func (q *RedisQueue) discard(ctx context.Context, payload string) {
	if err := q.client.LRem(ctx, KeyProcessing, 1, payload).Err(); err != nil {
		logrus.Errorf("failed to remove malformed job from processing: %v", err)
	}
	q.deadLetter(ctx, payload)
}

func (q *RedisQueue) deadLetter(ctx context.Context, payload string) {
	if err := q.client.LPush(ctx, KeyDead, payload).Err(); err != nil {
		logrus.Errorf("failed to dead-letter job: %v", err)
	}
}

// backoffDelay doubles per completed attempt: base, 2*base, 4*base, ...
func backoffDelay(baseMs int64, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return time.Duration(baseMs) * time.Millisecond << (attempts - 1)
}
