// Package translator converts raw syslog events into schema-typed records
// and hands them to the queue. It runs on whatever goroutines the listener
// delivers events from and must never let a failure escape back into them.
package translator

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/telhawk-systems/syslog-source/internal/logging"
	"github.com/telhawk-systems/syslog-source/internal/metrics"
	"github.com/telhawk-systems/syslog-source/internal/queue"
	"github.com/telhawk-systems/syslog-source/internal/record"
	"github.com/telhawk-systems/syslog-source/internal/resolver"
)

// RawEvent is one parsed syslog message as delivered by the listener.
// Pointer fields distinguish absent from zero; absent fields stay absent on
// the translated record.
type RawEvent struct {
	Facility  *int32
	Level     *int32
	Timestamp *time.Time
	Host      string
	Message   *string
	Charset   string
}

// Config holds the translator's immutable settings, read once at
// construction.
type Config struct {
	// Topic is the target topic stamped on every record.
	Topic string

	// ReverseDNS selects hostname policy: consult the resolver when true,
	// use the literal address when false.
	ReverseDNS bool
}

// Translator builds records from raw events. Safe for concurrent use; all
// state is set at construction and never mutated.
type Translator struct {
	topic      string
	reverseDNS bool
	resolver   resolver.Resolver
	queue      *queue.Queue
	logger     *logging.Logger
}

// New creates a translator. The resolver is only consulted when
// cfg.ReverseDNS is set; it may be nil otherwise.
func New(cfg Config, res resolver.Resolver, q *queue.Queue, logger *logging.Logger) *Translator {
	return &Translator{
		topic:      cfg.Topic,
		reverseDNS: cfg.ReverseDNS,
		resolver:   res,
		queue:      q,
		logger:     logger.With(logging.Component("translator")),
	}
}

// Event translates one raw event and enqueues the result. Fire-and-forget:
// the side effect is exactly one enqueue, or zero on failure. No error or
// panic propagates to the caller's goroutine.
func (t *Translator) Event(remoteAddr string, ev RawEvent) {
	defer func() {
		if r := recover(); r != nil {
			metrics.EventsDropped.WithLabelValues(metrics.ReasonPanic).Inc()
			t.logger.Error("panic during event translation, event dropped",
				logging.RemoteAddr(remoteAddr),
				"panic", fmt.Sprint(r),
			)
		}
	}()

	metrics.EventsReceived.Inc()
	t.logger.Debug("event received", logging.RemoteAddr(remoteAddr))

	rec, err := t.translate(remoteAddr, ev)
	if err != nil {
		metrics.EventsDropped.WithLabelValues(metrics.ReasonTranslationError).Inc()
		t.logger.Error("event translation failed, event dropped",
			logging.RemoteAddr(remoteAddr),
			logging.Error(err),
		)
		return
	}

	if !t.queue.Put(rec) {
		metrics.EventsDropped.WithLabelValues(metrics.ReasonQueueClosed).Inc()
		t.logger.Debug("queue closed, event dropped", logging.RemoteAddr(remoteAddr))
		return
	}
	metrics.EventsTranslated.Inc()
}

// Error receives transport-level failures from the listener. Logged only;
// reconnect policy does not live here.
func (t *Translator) Error(remoteAddr string, err error) {
	t.logger.Error("transport error",
		logging.RemoteAddr(remoteAddr),
		logging.Error(err),
	)
}

func (t *Translator) translate(remoteAddr string, ev RawEvent) (*record.Record, error) {
	if remoteAddr == "" {
		return nil, fmt.Errorf("translator: event without a remote address")
	}
	// A message carrying neither text nor a timestamp is untranslatable.
	if ev.Message == nil && ev.Timestamp == nil {
		return nil, fmt.Errorf("translator: event from %s has no message and no timestamp", remoteAddr)
	}

	key := record.NewStruct(record.KeySchema)
	if err := key.Put(record.FieldRemoteAddress, remoteAddr); err != nil {
		return nil, err
	}

	value := record.NewStruct(record.ValueSchema)
	if err := copyPresent(value, remoteAddr, ev); err != nil {
		return nil, err
	}

	if err := t.putHostname(value, remoteAddr); err != nil {
		return nil, err
	}

	partition := map[string]string{record.FieldHost: ev.Host}
	return record.New(t.topic, partition, key, value)
}

func copyPresent(value *record.Struct, remoteAddr string, ev RawEvent) error {
	if ev.Timestamp != nil {
		if err := value.Put(record.FieldDate, *ev.Timestamp); err != nil {
			return err
		}
	}
	if ev.Facility != nil {
		if err := value.Put(record.FieldFacility, *ev.Facility); err != nil {
			return err
		}
	}
	if ev.Host != "" {
		if err := value.Put(record.FieldHost, ev.Host); err != nil {
			return err
		}
	}
	if ev.Level != nil {
		if err := value.Put(record.FieldLevel, *ev.Level); err != nil {
			return err
		}
	}
	if ev.Message != nil {
		if err := value.Put(record.FieldMessage, *ev.Message); err != nil {
			return err
		}
	}
	if ev.Charset != "" {
		if err := value.Put(record.FieldCharset, ev.Charset); err != nil {
			return err
		}
	}
	return value.Put(record.FieldRemoteAddress, remoteAddr)
}

// putHostname applies the configured hostname policy. In reverse-DNS mode a
// failed lookup degrades the record (field absent), never the pipeline.
func (t *Translator) putHostname(value *record.Struct, remoteAddr string) error {
	if t.reverseDNS {
		name, err := t.resolver.Resolve(context.Background(), remoteAddr)
		if err != nil {
			metrics.ResolverFailures.Inc()
			t.logger.Warn("reverse lookup failed, hostname omitted",
				logging.RemoteAddr(remoteAddr),
				logging.Error(err),
			)
			return nil
		}
		return value.Put(record.FieldHostname, name)
	}

	host, _, err := net.SplitHostPort(remoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return value.Put(record.FieldHostname, host)
	}
	return value.Put(record.FieldHostname, remoteAddr)
}
