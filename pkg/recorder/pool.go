package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/papercomputeco/splice/pkg/eventstream"
	"github.com/papercomputeco/splice/pkg/logger"
)

var (
	defaultNumWorkers   uint = 3
	defaultJobQueueSize uint = 256
)

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for persisting records.
	Driver Driver

	// Publisher optionally receives a completion event after each record
	// persists. Leave nil to disable event publishing.
	Publisher eventstream.Publisher

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 256).
	QueueSize uint

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

// Pool persists records asynchronously via a worker pool.
type Pool struct {
	config *Config
	queue  chan *Record
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("driver is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	wp := &Pool{
		config: c,
		queue:  make(chan *Record, c.QueueSize),
		logger: c.Logger,
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a record for persistence by the worker pool.
// Returns true if enqueued, false if the queue is full, resulting in the
// record being dropped.
func (p *Pool) Enqueue(rec *Record) bool {
	select {
	case p.queue <- rec:
		p.logger.Debug("record queued",
			"request_id", rec.RequestID,
			"model", rec.Model,
		)
		return true
	default:
		p.logger.Error("record not queued, queue full, record dropped",
			"request_id", rec.RequestID,
			"model", rec.Model,
		)
		return false
	}
}

// Close signals workers to stop and waits for in-flight records to drain.
// Call this during graceful shutdown after stream consumption has stopped.
func (p *Pool) Close() {
	close(p.queue)
	p.wg.Wait()
}

// worker is the inner worker thread that continuously pulls records off
// the queue.
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)

	for rec := range p.queue {
		p.processRecord(rec)
	}

	p.logger.Debug("recorder worker stopped", "worker_id", id)
}

// processRecord persists a record and, when a publisher is configured,
// emits a completion event. Publish errors are logged but never fail the
// persistence.
func (p *Pool) processRecord(rec *Record) {
	ctx := context.Background()

	if err := p.config.Driver.Put(ctx, rec); err != nil {
		p.logger.Error("async record storage failed",
			"request_id", rec.RequestID,
			"error", err,
		)
		return
	}

	p.logger.Info("transcript recorded",
		"request_id", rec.RequestID,
		"model", rec.Model,
		"total_tokens", rec.Usage.TotalTokens(),
	)

	if p.config.Publisher == nil {
		return
	}

	ev := eventstream.NewStreamCompletedEvent(rec.RequestID, rec.Model, rec.Usage, rec.CompletedAt)
	if err := p.config.Publisher.Publish(ctx, ev); err != nil {
		p.logger.Warn("failed to publish completion event",
			"request_id", rec.RequestID,
			"error", err,
		)
		return
	}

	p.logger.Debug("completion event published",
		"event_id", ev.EventID,
		"request_id", rec.RequestID,
	)
}
