// Package queue provides the unbounded FIFO hand-off buffer between the
// listener's event goroutines and the single poll consumer.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/telhawk-systems/syslog-source/internal/metrics"
	"github.com/telhawk-systems/syslog-source/internal/record"
)

// ErrClosed is returned by Get once the queue is closed and drained.
var ErrClosed = errors.New("queue: closed")

// Queue is a multi-producer, single-consumer FIFO of records. Put never
// blocks beyond the mutex hold, so a producer goroutine is never stalled by
// a slow consumer. Records from one producer goroutine are dequeued in the
// order they were enqueued; no ordering is guaranteed across producers.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []*record.Record
	head   int
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends a record. Returns false if the queue is already closed; the
// record is dropped in that case (shutdown window only).
func (q *Queue) Put(rec *record.Record) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, rec)
	metrics.QueueDepth.Set(float64(len(q.items) - q.head))
	q.cond.Signal()
	return true
}

// Get removes the oldest record, blocking until one is available, the
// context is canceled, or the queue is closed and empty.
func (q *Queue) Get(ctx context.Context) (*record.Record, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.head < len(q.items) {
			return q.popLocked(), nil
		}
		if q.closed {
			return nil, ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.cond.Wait()
	}
}

// Poll removes the oldest record if one is present, without blocking.
func (q *Queue) Poll() (*record.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.items) {
		return nil, false
	}
	return q.popLocked(), true
}

// Drain removes up to max records without blocking. Returns nil when the
// queue is empty.
func (q *Queue) Drain(max int) []*record.Record {
	if max <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items) - q.head
	if n == 0 {
		return nil
	}
	if n > max {
		n = max
	}
	out := make([]*record.Record, n)
	for i := 0; i < n; i++ {
		out[i] = q.popLocked()
	}
	return out
}

// Len returns the number of buffered records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close stops intake. Buffered records remain consumable; Get reports
// ErrClosed once the queue is empty. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *Queue) popLocked() *record.Record {
	rec := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	// Reclaim the consumed prefix once it dominates the backing slice.
	if q.head > 64 && q.head*2 >= len(q.items) {
		q.items = append([]*record.Record(nil), q.items[q.head:]...)
		q.head = 0
	}
	metrics.QueueDepth.Set(float64(len(q.items) - q.head))
	return rec
}
