package outbound

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mmx233/Cubic/server/registry"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingConn struct {
	id           uint64
	disconnected atomic.Bool
	done         chan struct{}
	writeErr     error
	gate         chan struct{}

	mu     sync.Mutex
	writes [][]byte
	reason error
}

func newRecordingConn(id uint64) *recordingConn {
	return &recordingConn{id: id, done: make(chan struct{})}
}

func (c *recordingConn) ID() uint64            { return c.id }
func (c *recordingConn) Disconnected() bool    { return c.disconnected.Load() }
func (c *recordingConn) Done() <-chan struct{} { return c.done }

func (c *recordingConn) MarkDisconnected(reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disconnected.CompareAndSwap(false, true) {
		c.reason = reason
	}
}

func (c *recordingConn) WriteOutbound(b []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, b)
	return nil
}

func (c *recordingConn) snapshot() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.writes...)
}

type harness struct {
	queue  *Queue
	reg    *registry.Registry
	writer *Writer
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func startHarness(t *testing.T, size int) *harness {
	t.Helper()
	h := &harness{
		queue: NewQueue(size),
		reg:   registry.New(zerolog.Nop()),
	}
	h.writer = NewWriter(h.queue, h.reg, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		_ = h.writer.Run(ctx)
	}()
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.cancel()
	h.wg.Wait()
	h.queue.Close()
}

func TestConcurrentProducersDoNotInterleave(t *testing.T) {
	h := startHarness(t, 8)
	c := newRecordingConn(1)
	require.NoError(t, h.reg.Register(c))

	const producers, perProducer = 8, 200
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				data := []byte(fmt.Sprintf("producer-%d-item-%04d|", p, i))
				if err := h.queue.Enqueue(Item{ConnID: 1, Data: data}, nil); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}(p)
	}
	wg.Wait()
	require.True(t, h.writer.Drain(5*time.Second))

	require.Eventually(t, func() bool {
		return len(c.snapshot()) == producers*perProducer
	}, 2*time.Second, 5*time.Millisecond)

	// Every write is exactly one enqueued buffer and each producer's items
	// arrive in the order they were enqueued.
	next := make([]int, producers)
	for _, w := range c.snapshot() {
		var p, i int
		_, err := fmt.Sscanf(string(w), "producer-%d-item-%04d|", &p, &i)
		require.NoError(t, err, "write %q is not a single item", w)
		require.Equal(t, next[p], i, "producer %d out of order", p)
		next[p]++
	}
}

func TestWriterDiscardsForGoneConnections(t *testing.T) {
	h := startHarness(t, 4)
	live, flagged := newRecordingConn(1), newRecordingConn(2)
	require.NoError(t, h.reg.Register(live))
	require.NoError(t, h.reg.Register(flagged))
	flagged.MarkDisconnected(errors.New("gone"))

	require.NoError(t, h.queue.Enqueue(Item{ConnID: 99, Data: []byte("nobody")}, nil))
	require.NoError(t, h.queue.Enqueue(Item{ConnID: 2, Data: []byte("flagged")}, nil))
	require.NoError(t, h.queue.Enqueue(Item{ConnID: 1, Data: []byte("live")}, nil))

	require.Eventually(t, func() bool { return len(live.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []byte("live"), live.snapshot()[0])
	assert.Empty(t, flagged.snapshot())
}

func TestWriteErrorMarksDisconnected(t *testing.T) {
	h := startHarness(t, 4)
	broken := newRecordingConn(1)
	broken.writeErr = errors.New("broken pipe")
	require.NoError(t, h.reg.Register(broken))

	require.NoError(t, h.queue.Enqueue(Item{ConnID: 1, Data: []byte("x")}, nil))
	require.Eventually(t, broken.Disconnected, time.Second, 5*time.Millisecond)
	broken.mu.Lock()
	defer broken.mu.Unlock()
	assert.Equal(t, broken.writeErr, broken.reason)
}

func TestCloseAfterWrite(t *testing.T) {
	h := startHarness(t, 4)
	c := newRecordingConn(1)
	require.NoError(t, h.reg.Register(c))

	kicked := errors.New("kicked")
	require.NoError(t, h.queue.Enqueue(Item{ConnID: 1, Data: []byte("bye"), CloseReason: kicked}, nil))
	require.NoError(t, h.queue.Enqueue(Item{ConnID: 1, Data: []byte("after")}, nil))

	require.Eventually(t, c.Disconnected, time.Second, 5*time.Millisecond)
	require.True(t, h.writer.Drain(time.Second))
	assert.Equal(t, [][]byte{[]byte("bye")}, c.snapshot())
}

func TestIdleSweep(t *testing.T) {
	h := startHarness(t, 4)
	c := newRecordingConn(1)
	require.NoError(t, h.reg.Register(c))
	c.MarkDisconnected(errors.New("closed"))
	close(c.done)

	require.Eventually(t, func() bool { return h.reg.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestEnqueueCancelAndClose(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Enqueue(Item{ConnID: 1}, nil))

	cancel := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- q.Enqueue(Item{ConnID: 1}, cancel) }()
	close(cancel)
	assert.ErrorIs(t, <-errCh, ErrCanceled)

	go func() { errCh <- q.Enqueue(Item{ConnID: 1}, nil) }()
	q.Close()
	assert.ErrorIs(t, <-errCh, ErrQueueClosed)
	assert.ErrorIs(t, q.Enqueue(Item{ConnID: 1}, nil), ErrQueueClosed)
}

func TestDrainTimesOutWithoutConsumer(t *testing.T) {
	q := NewQueue(2)
	w := NewWriter(q, registry.New(zerolog.Nop()), time.Second, zerolog.Nop())
	assert.True(t, w.Drain(time.Millisecond))

	require.NoError(t, q.Enqueue(Item{ConnID: 1, Data: bytes.Repeat([]byte{1}, 4)}, nil))
	start := time.Now()
	assert.False(t, w.Drain(30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestDrainWaitsForInFlightWrite(t *testing.T) {
	h := startHarness(t, 4)
	c := newRecordingConn(1)
	c.gate = make(chan struct{})
	require.NoError(t, h.reg.Register(c))

	require.NoError(t, h.queue.Enqueue(Item{ConnID: 1, Data: []byte("slow")}, nil))
	require.Eventually(t, func() bool { return len(h.queue.ch) == 0 }, time.Second, time.Millisecond)

	// The writer holds the item but has not written it yet.
	assert.Equal(t, 1, h.queue.Len())
	assert.False(t, h.writer.Drain(30*time.Millisecond))

	close(c.gate)
	require.True(t, h.writer.Drain(time.Second))
	assert.Equal(t, [][]byte{[]byte("slow")}, c.snapshot())
}

func TestWriteSweepIsRateLimited(t *testing.T) {
	reg := registry.New(zerolog.Nop())
	w := NewWriter(NewQueue(1), reg, time.Hour, zerolog.Nop())

	now := time.Now()
	require.True(t, w.maybeSweep(now))

	c := newRecordingConn(1)
	require.NoError(t, reg.Register(c))
	c.MarkDisconnected(errors.New("closed"))
	close(c.done)

	assert.False(t, w.maybeSweep(now.Add(writeSweepGap/2)))
	assert.Equal(t, 1, reg.Count(), "sweep within the gap must be skipped")

	assert.True(t, w.maybeSweep(now.Add(writeSweepGap)))
	assert.Zero(t, reg.Count())
}
