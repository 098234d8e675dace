// Package forwarder is the poll consumer: a single goroutine that drains
// the hand-off queue in batches and publishes each record downstream.
package forwarder

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/telhawk-systems/syslog-source/internal/logging"
	"github.com/telhawk-systems/syslog-source/internal/metrics"
	"github.com/telhawk-systems/syslog-source/internal/queue"
	"github.com/telhawk-systems/syslog-source/internal/record"
)

// Publisher sends one serialized record to a subject. The NATS client
// satisfies this; tests inject fakes.
type Publisher interface {
	Publish(ctx context.Context, subject string, headers map[string]string, data []byte) error
}

// MsgIDHeader carries a per-record UUID so a JetStream consumer can
// deduplicate retransmissions.
const MsgIDHeader = "Nats-Msg-Id"

// Config holds the forwarder's settings.
type Config struct {
	// BatchSize caps how many records one poll cycle drains.
	BatchSize int

	// SubjectPrefix prefixes the record topic to form the publish subject,
	// e.g. prefix "records" and topic "syslog" publish to "records.syslog".
	SubjectPrefix string
}

// DefaultBatchSize is used when Config.BatchSize is unset.
const DefaultBatchSize = 100

// Forwarder drains the queue and publishes records. Exactly one consumer
// goroutine removes records; publish failures are logged and the loop keeps
// going.
type Forwarder struct {
	queue   *queue.Queue
	pub     Publisher
	batch   int
	prefix  string
	logger  *logging.Logger
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// New creates a forwarder over the given queue and publisher.
func New(cfg Config, q *queue.Queue, pub Publisher, logger *logging.Logger) *Forwarder {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "records"
	}
	return &Forwarder{
		queue:  q,
		pub:    pub,
		batch:  batch,
		prefix: prefix,
		logger: logger.With(logging.Component("forwarder")),
	}
}

// Start launches the poll loop.
func (f *Forwarder) Start() {
	if f.started {
		return
	}
	f.started = true

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	f.wg.Add(1)
	go f.run(ctx)
}

// Stop cancels the poll loop, publishes whatever is still buffered, and
// waits for the loop to exit.
func (f *Forwarder) Stop() {
	if !f.started {
		return
	}
	f.cancel()
	f.wg.Wait()
}

func (f *Forwarder) run(ctx context.Context) {
	defer f.wg.Done()

	for {
		rec, err := f.queue.Get(ctx)
		if err != nil {
			// Canceled or closed: one final non-blocking drain so shutdown
			// never strands buffered records.
			f.finalDrain()
			return
		}

		batch := append([]*record.Record{rec}, f.queue.Drain(f.batch-1)...)
		f.publishBatch(ctx, batch)
	}
}

func (f *Forwarder) finalDrain() {
	for {
		batch := f.queue.Drain(f.batch)
		if len(batch) == 0 {
			return
		}
		f.publishBatch(context.Background(), batch)
	}
}

func (f *Forwarder) publishBatch(ctx context.Context, batch []*record.Record) {
	f.logger.Debug("publishing batch", logging.BatchSize(len(batch)))

	for _, rec := range batch {
		data, err := json.Marshal(rec)
		if err != nil {
			metrics.PublishErrors.Inc()
			f.logger.Error("record serialization failed, record dropped",
				logging.Topic(rec.Topic),
				logging.Error(err),
			)
			continue
		}

		subject := f.subjectFor(rec)
		headers := map[string]string{MsgIDHeader: uuid.New().String()}

		start := time.Now()
		if err := f.pub.Publish(ctx, subject, headers, data); err != nil {
			metrics.PublishErrors.Inc()
			f.logger.Error("publish failed",
				logging.Subject(subject),
				logging.Error(err),
			)
			continue
		}
		metrics.PublishDuration.Observe(time.Since(start).Seconds())
		metrics.RecordsPublished.Inc()
	}
}

func (f *Forwarder) subjectFor(rec *record.Record) string {
	return fmt.Sprintf("%s.%s", f.prefix, rec.Topic)
}
