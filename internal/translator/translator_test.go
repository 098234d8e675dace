package translator

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/syslog-source/internal/logging"
	"github.com/telhawk-systems/syslog-source/internal/queue"
	"github.com/telhawk-systems/syslog-source/internal/record"
	"github.com/telhawk-systems/syslog-source/internal/resolver"
)

// fakeResolver counts calls and returns a fixed result or error.
type fakeResolver struct {
	calls    atomic.Int64
	hostname string
	err      error
}

func (f *fakeResolver) Resolve(ctx context.Context, addr string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.hostname, nil
}

func discardLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func captureLogger(buf *bytes.Buffer) *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func int32p(v int32) *int32        { return &v }
func strp(s string) *string        { return &s }
func timep(t time.Time) *time.Time { return &t }

func testEvent() RawEvent {
	return RawEvent{
		Facility: int32p(4),
		Level:    int32p(2),
		Host:     "web1",
		Message:  strp("test"),
	}
}

func TestEventLiteralMode(t *testing.T) {
	q := queue.New()
	res := &fakeResolver{hostname: "never.example.com"}
	tr := New(Config{Topic: "syslog", ReverseDNS: false}, res, q, discardLogger())

	tr.Event("203.0.113.5:514", testEvent())

	rec, ok := q.Poll()
	require.True(t, ok, "exactly one record must be enqueued")
	require.NotNil(t, rec.Key)
	require.NotNil(t, rec.Value)

	addr, _ := rec.Key.GetString(record.FieldRemoteAddress)
	assert.Equal(t, "203.0.113.5:514", addr)

	facility, _ := rec.Value.GetInt32(record.FieldFacility)
	assert.Equal(t, int32(4), facility)
	level, _ := rec.Value.GetInt32(record.FieldLevel)
	assert.Equal(t, int32(2), level)
	msg, _ := rec.Value.GetString(record.FieldMessage)
	assert.Equal(t, "test", msg)
	host, _ := rec.Value.GetString(record.FieldHost)
	assert.Equal(t, "web1", host)
	valueAddr, _ := rec.Value.GetString(record.FieldRemoteAddress)
	assert.Equal(t, "203.0.113.5:514", valueAddr)

	// Literal mode: hostname is the bare IP, and the resolver is never
	// consulted.
	hostname, _ := rec.Value.GetString(record.FieldHostname)
	assert.Equal(t, "203.0.113.5", hostname)
	assert.Equal(t, int64(0), res.calls.Load())

	assert.Equal(t, "syslog", rec.Topic)
	assert.Equal(t, map[string]string{record.FieldHost: "web1"}, rec.SourcePartition)
	assert.Empty(t, rec.SourceOffset)

	_, more := q.Poll()
	assert.False(t, more, "exactly one record, no more")
}

func TestEventLiteralModeNonIPAddress(t *testing.T) {
	q := queue.New()
	tr := New(Config{Topic: "syslog"}, nil, q, discardLogger())

	tr.Event("unix:/dev/log", testEvent())

	rec, ok := q.Poll()
	require.True(t, ok)
	hostname, _ := rec.Value.GetString(record.FieldHostname)
	assert.Equal(t, "unix:/dev/log", hostname, "non-IP address falls back to its string form")
}

func TestEventReverseDNS(t *testing.T) {
	q := queue.New()
	res := &fakeResolver{hostname: "web1.example.com"}
	tr := New(Config{Topic: "syslog", ReverseDNS: true}, res, q, discardLogger())

	tr.Event("203.0.113.5:514", testEvent())

	rec, ok := q.Poll()
	require.True(t, ok)
	hostname, _ := rec.Value.GetString(record.FieldHostname)
	assert.Equal(t, "web1.example.com", hostname)
	assert.Equal(t, int64(1), res.calls.Load())
}

func TestEventReverseDNSFailureStillEnqueues(t *testing.T) {
	q := queue.New()
	res := &fakeResolver{err: &resolver.ResolutionError{
		Addr: "203.0.113.5:514",
		Err:  errors.New("i/o timeout"),
	}}

	var buf bytes.Buffer
	tr := New(Config{Topic: "syslog", ReverseDNS: true}, res, q, captureLogger(&buf))

	tr.Event("203.0.113.5:514", testEvent())

	rec, ok := q.Poll()
	require.True(t, ok, "resolver failure degrades the record, never availability")
	assert.False(t, rec.Value.Has(record.FieldHostname), "hostname must be absent, not defaulted")

	msg, _ := rec.Value.GetString(record.FieldMessage)
	assert.Equal(t, "test", msg)

	assert.Contains(t, buf.String(), "reverse lookup failed")
	assert.Contains(t, buf.String(), "WARN")
}

func TestEventOptionalFieldsStayAbsent(t *testing.T) {
	q := queue.New()
	tr := New(Config{Topic: "syslog"}, nil, q, discardLogger())

	// Only a message; everything else absent.
	tr.Event("203.0.113.5:514", RawEvent{Message: strp("bare")})

	rec, ok := q.Poll()
	require.True(t, ok)
	assert.False(t, rec.Value.Has(record.FieldDate))
	assert.False(t, rec.Value.Has(record.FieldFacility))
	assert.False(t, rec.Value.Has(record.FieldHost))
	assert.False(t, rec.Value.Has(record.FieldLevel))
	assert.False(t, rec.Value.Has(record.FieldCharset))
	assert.True(t, rec.Value.Has(record.FieldRemoteAddress))
}

func TestEventTimestampAndCharset(t *testing.T) {
	q := queue.New()
	tr := New(Config{Topic: "syslog"}, nil, q, discardLogger())

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := testEvent()
	ev.Timestamp = timep(ts)
	ev.Charset = "UTF-8"

	tr.Event("203.0.113.5:514", ev)

	rec, ok := q.Poll()
	require.True(t, ok)
	got, _ := rec.Value.GetTime(record.FieldDate)
	assert.True(t, got.Equal(ts))
	charset, _ := rec.Value.GetString(record.FieldCharset)
	assert.Equal(t, "UTF-8", charset)
}

func TestEventMalformedDropped(t *testing.T) {
	q := queue.New()
	var buf bytes.Buffer
	tr := New(Config{Topic: "syslog"}, nil, q, captureLogger(&buf))

	// No message and no timestamp: untranslatable.
	tr.Event("203.0.113.5:514", RawEvent{Host: "web1"})

	assert.Equal(t, 0, q.Len(), "no record enqueued for a malformed event")
	assert.Contains(t, buf.String(), "translation failed")
	assert.Contains(t, buf.String(), "ERROR")
}

func TestEventMissingRemoteAddressDropped(t *testing.T) {
	q := queue.New()
	tr := New(Config{Topic: "syslog"}, nil, q, discardLogger())

	tr.Event("", testEvent())

	assert.Equal(t, 0, q.Len())
}

func TestEventRecoversPanic(t *testing.T) {
	q := queue.New()
	var buf bytes.Buffer
	tr := New(Config{Topic: "syslog", ReverseDNS: true}, panicResolver{}, q, captureLogger(&buf))

	assert.NotPanics(t, func() {
		tr.Event("203.0.113.5:514", testEvent())
	}, "nothing may propagate into the caller's goroutine")

	assert.Equal(t, 0, q.Len(), "no partial record enqueued after a panic")
	assert.Contains(t, buf.String(), "panic during event translation")
}

type panicResolver struct{}

func (panicResolver) Resolve(ctx context.Context, addr string) (string, error) {
	panic("resolver blew up")
}

func TestEventAfterQueueClose(t *testing.T) {
	q := queue.New()
	q.Close()
	tr := New(Config{Topic: "syslog"}, nil, q, discardLogger())

	assert.NotPanics(t, func() {
		tr.Event("203.0.113.5:514", testEvent())
	})
	assert.Equal(t, 0, q.Len())
}

func TestErrorCallbackLogsOnly(t *testing.T) {
	q := queue.New()
	var buf bytes.Buffer
	tr := New(Config{Topic: "syslog"}, nil, q, captureLogger(&buf))

	tr.Error("203.0.113.5:514", errors.New("connection reset"))

	assert.Contains(t, buf.String(), "transport error")
	assert.Contains(t, buf.String(), "connection reset")
	assert.Equal(t, 0, q.Len())
}
