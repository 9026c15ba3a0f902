package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueInvoice = "jobs:invoice"
	QueueEmail   = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoice pushes an invoice rendering job to Redis.
func (d *Dispatcher) EnqueueInvoice(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueInvoice, "invoice", payload)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes both queues and routes each job to its handler.
type Pool struct {
	rdb           *redis.Client
	invoiceWorker *InvoiceWorker
	emailWorker   *EmailWorker
}

func NewPool(rdb *redis.Client, invoiceWorker *InvoiceWorker, emailWorker *EmailWorker) *Pool {
	return &Pool{rdb: rdb, invoiceWorker: invoiceWorker, emailWorker: emailWorker}
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueInvoice, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	switch queue {
	case QueueInvoice:
		p.invoiceWorker.Process(ctx, job.Payload)
	case QueueEmail:
		p.emailWorker.Process(ctx, job.Payload)
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue dropped")
	}
}
