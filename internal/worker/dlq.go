package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust MaxAttempts are parked on dlq:<queue> and never retried
// automatically. An operator can LRANGE the list to inspect them.
const DLQPrefix = "dlq:"

// DeadLetter is one parked job.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	FailedAt string          `json:"failed_at"`
}

func deadLetterKey(queue string) string { return DLQPrefix + queue }

func newDeadLetter(queue string, job *Job, reason string, at time.Time) DeadLetter {
	return DeadLetter{
		Queue:    queue,
		Type:     job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Attempts: job.Attempts,
		FailedAt: at.UTC().Format(time.RFC3339),
	}
}

// bury parks job on the dead letter list of queue. Failures are logged only.
func bury(ctx context.Context, rdb *redis.Client, queue string, job *Job, reason string) {
	entry := newDeadLetter(queue, job, reason, time.Now())
	data, err := json.Marshal(entry)
	if err == nil {
		err = rdb.LPush(ctx, deadLetterKey(queue), data).Err()
	}
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Msg("worker: dead letter push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("worker: job dead-lettered")
}

// DeadLetterCount reports how many jobs are parked for queue.
func DeadLetterCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, deadLetterKey(queue)).Result()
}
