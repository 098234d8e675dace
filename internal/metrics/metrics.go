package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Event translation metrics
	EventsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syslog_source_events_received_total",
			Help: "Total number of syslog events delivered by the listener",
		},
	)

	EventsTranslated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syslog_source_events_translated_total",
			Help: "Total number of events translated and enqueued as records",
		},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "syslog_source_events_dropped_total",
			Help: "Total number of events dropped without producing a record",
		},
		[]string{"reason"},
	)

	// Resolver metrics
	ResolverFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syslog_source_resolver_failures_total",
			Help: "Total number of failed reverse DNS lookups",
		},
	)

	// Queue metrics
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "syslog_source_queue_depth",
			Help: "Current depth of the record hand-off queue",
		},
	)

	// Forwarder metrics
	RecordsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syslog_source_records_published_total",
			Help: "Total number of records published downstream",
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "syslog_source_publish_errors_total",
			Help: "Total number of failed downstream publishes",
		},
	)

	PublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "syslog_source_publish_duration_seconds",
			Help:    "Duration of downstream publish operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Drop reasons for EventsDropped.
const (
	ReasonTranslationError = "translation_error"
	ReasonPanic            = "panic"
	ReasonQueueClosed      = "queue_closed"
)
