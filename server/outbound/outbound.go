package outbound

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mmx233/Cubic/server/registry"
	"github.com/rs/zerolog"
)

var (
	ErrQueueClosed = errors.New("outbound queue closed")
	ErrCanceled    = errors.New("enqueue canceled")
)

// Item is one complete buffer for one connection. The writer never modifies
// Data, so one buffer may be queued for many connections. A non-nil
// CloseReason disconnects the connection once Data has been written.
type Item struct {
	ConnID      uint64
	Data        []byte
	CloseReason error
}

// Queue is the multi producer, single consumer queue in front of the writer.
type Queue struct {
	ch        chan Item
	done      chan struct{}
	closeOnce sync.Once

	// queued plus in-flight items
	pending atomic.Int64
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		ch:   make(chan Item, size),
		done: make(chan struct{}),
	}
}

// Enqueue blocks while the queue is full. It gives up with ErrCanceled when
// cancel is closed and with ErrQueueClosed once the queue is closed.
func (q *Queue) Enqueue(item Item, cancel <-chan struct{}) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	q.pending.Add(1)
	select {
	case q.ch <- item:
		return nil
	case <-cancel:
		q.pending.Add(-1)
		return ErrCanceled
	case <-q.done:
		q.pending.Add(-1)
		return ErrQueueClosed
	}
}

// Len returns the number of items queued or being written.
func (q *Queue) Len() int { return int(q.pending.Load()) }

// Close rejects further enqueues. Items still queued are released with the
// queue.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// writeSweepGap is the shortest time between two sweeps on the write path.
const writeSweepGap = 100 * time.Millisecond

// Writer is the only consumer of the queue and the only goroutine that writes
// to sockets.
type Writer struct {
	queue         *Queue
	registry      *registry.Registry
	sweepInterval time.Duration
	logger        zerolog.Logger

	lastSweep time.Time
}

func NewWriter(queue *Queue, reg *registry.Registry, sweepInterval time.Duration, logger zerolog.Logger) *Writer {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Second
	}
	return &Writer{
		queue:         queue,
		registry:      reg,
		sweepInterval: sweepInterval,
		logger:        logger,
	}
}

// Run consumes the queue until ctx is done.
func (w *Writer) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Debug().Msg("outbound writer started")
	defer w.logger.Debug().Msg("outbound writer stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case item := <-w.queue.ch:
			w.write(item)
		case now := <-ticker.C:
			w.sweep(now)
		}
	}
}

// maybeSweep sweeps unless the last sweep was less than writeSweepGap ago,
// which keeps a busy writer off the registry lock.
func (w *Writer) maybeSweep(now time.Time) bool {
	if now.Sub(w.lastSweep) < writeSweepGap {
		return false
	}
	w.sweep(now)
	return true
}

func (w *Writer) sweep(now time.Time) {
	w.lastSweep = now
	w.registry.Sweep()
}

func (w *Writer) write(item Item) {
	defer w.queue.pending.Add(-1)
	w.maybeSweep(time.Now())

	c, err := w.registry.Lookup(item.ConnID)
	if err != nil {
		// The connection went away after the item was queued.
		w.logger.Trace().Uint64("conn_id", item.ConnID).Msg("discarding item for unknown connection")
		return
	}
	if c.Disconnected() {
		w.logger.Trace().Uint64("conn_id", item.ConnID).Msg("discarding item for disconnected connection")
		return
	}
	if err := c.WriteOutbound(item.Data); err != nil {
		w.logger.Debug().Err(err).Uint64("conn_id", item.ConnID).Msg("write failed")
		c.MarkDisconnected(err)
		return
	}
	if item.CloseReason != nil {
		c.MarkDisconnected(item.CloseReason)
	}
}

// Drain waits until the running writer has written every queued item or grace
// has elapsed, and reports whether the queue was emptied.
func (w *Writer) Drain(grace time.Duration) bool {
	if w.queue.Len() == 0 {
		return true
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for w.queue.Len() > 0 {
		select {
		case <-timer.C:
			w.logger.Warn().Int("pending", w.queue.Len()).Msg("outbound drain timed out, dropping pending items")
			return false
		case <-ticker.C:
		}
	}
	return true
}
