package logging

import "log/slog"

// Common field names for consistent logging across the connector.
const (
	FieldComponent  = "component"
	FieldRemoteAddr = "remote_addr"
	FieldHostname   = "hostname"
	FieldTopic      = "topic"
	FieldSubject    = "subject"
	FieldProtocol   = "protocol"
	FieldAddress    = "address"
	FieldQueueDepth = "queue_depth"
	FieldBatchSize  = "batch_size"
	FieldTaskID     = "task_id"
	FieldError      = "error"
)

// Component returns a slog attribute for the component name.
func Component(name string) slog.Attr {
	return slog.String(FieldComponent, name)
}

// RemoteAddr returns a slog attribute for the sender's socket address.
func RemoteAddr(addr string) slog.Attr {
	return slog.String(FieldRemoteAddr, addr)
}

// Hostname returns a slog attribute for a resolved hostname.
func Hostname(name string) slog.Attr {
	return slog.String(FieldHostname, name)
}

// Topic returns a slog attribute for the target topic.
func Topic(topic string) slog.Attr {
	return slog.String(FieldTopic, topic)
}

// Subject returns a slog attribute for a messaging subject.
func Subject(subject string) slog.Attr {
	return slog.String(FieldSubject, subject)
}

// Protocol returns a slog attribute for a listener protocol.
func Protocol(proto string) slog.Attr {
	return slog.String(FieldProtocol, proto)
}

// Address returns a slog attribute for a bind address.
func Address(addr string) slog.Attr {
	return slog.String(FieldAddress, addr)
}

// QueueDepth returns a slog attribute for the hand-off queue depth.
func QueueDepth(n int) slog.Attr {
	return slog.Int(FieldQueueDepth, n)
}

// BatchSize returns a slog attribute for a forwarded batch size.
func BatchSize(n int) slog.Attr {
	return slog.Int(FieldBatchSize, n)
}

// TaskID returns a slog attribute for a connector task ID.
func TaskID(id string) slog.Attr {
	return slog.String(FieldTaskID, id)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
