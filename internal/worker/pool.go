package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/nb2912/inventory/internal/dto"
	"github.com/nb2912/inventory/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueLowStock = "jobs:low_stock"

	JobLowStock = "low_stock"

	// MaxAttempts is how many times a job runs before it is dead-lettered.
	MaxAttempts = 3

	// DefaultRetryBackoff is multiplied by the attempt number before a failed
	// job is requeued.
	DefaultRetryBackoff = 5 * time.Second
	// DefaultCircuitWait is how long a job waits when the mail circuit is open.
	// Those runs do not count as attempts.
	DefaultCircuitWait = 30 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error counts as a failed attempt.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStock pushes a low-stock notification job to Redis.
func (d *Dispatcher) EnqueueLowStock(ctx context.Context, ev dto.LowStockEvent) error {
	return d.enqueue(ctx, QueueLowStock, JobLowStock, ev)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	wg       sync.WaitGroup

	// RetryBackoff and CircuitWait may be changed before Start.
	RetryBackoff time.Duration
	CircuitWait  time.Duration
}

// NewPool maps job types to handlers. queues are polled in order.
func NewPool(rdb *redis.Client, handlers map[string]Handler, queues ...string) *Pool {
	return &Pool{
		rdb:          rdb,
		handlers:     handlers,
		queues:       queues,
		RetryBackoff: DefaultRetryBackoff,
		CircuitWait:  DefaultCircuitWait,
	}
}

// Start launches numWorkers goroutines. Each goroutine blocks on BRPOP
// (zero CPU when idle) and exits when ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.settle(ctx, result[0], result[1])
		}
	}
}

// verdict is what to do with a job after one attempt.
type verdict struct {
	done    bool
	retry   *Job
	delay   time.Duration // before retry is requeued
	dead    *Job
	reason  string
	jobType string
}

// attempt runs the job once and decides its fate without touching Redis.
func (p *Pool) attempt(ctx context.Context, raw string) verdict {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// Keep the raw text as a JSON string so the dead letter still marshals
		quoted, _ := json.Marshal(raw)
		return verdict{dead: &Job{Payload: quoted}, reason: "malformed job: " + err.Error()}
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		return verdict{dead: &job, reason: "no handler for job type", jobType: job.Type}
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return verdict{done: true, jobType: job.Type}
	}
	// The job never reached the mail server; wait out the circuit instead
	if errors.Is(err, infra.ErrCircuitOpen) {
		return verdict{retry: &job, delay: p.CircuitWait, reason: err.Error(), jobType: job.Type}
	}
	job.Attempts++
	if job.Attempts >= MaxAttempts {
		return verdict{dead: &job, reason: err.Error(), jobType: job.Type}
	}
	return verdict{retry: &job, delay: p.RetryBackoff * time.Duration(job.Attempts), reason: err.Error(), jobType: job.Type}
}

func (p *Pool) settle(ctx context.Context, queue, raw string) {
	v := p.attempt(ctx, raw)
	switch {
	case v.done:
		log.Debug().Str("queue", queue).Str("type", v.jobType).Msg("job processed")
	case v.retry != nil:
		log.Warn().Str("queue", queue).Str("type", v.jobType).Int("attempt", v.retry.Attempts).
			Dur("delay", v.delay).Str("reason", v.reason).Msg("job failed, requeueing")
		select {
		case <-ctx.Done():
		case <-time.After(v.delay):
		}
		// Requeue even during shutdown so the job is not lost
		data, err := json.Marshal(v.retry)
		if err == nil {
			err = p.rdb.LPush(context.WithoutCancel(ctx), queue, data).Err()
		}
		if err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("worker: requeue failed")
		}
	case v.dead != nil:
		bury(ctx, p.rdb, queue, v.dead, v.reason)
	}
}
