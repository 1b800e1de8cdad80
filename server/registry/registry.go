package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("connection not found in registry")
	ErrDuplicate = errors.New("connection id already registered")
)

// Conn is what the registry and the outbound writer need from a connection.
type Conn interface {
	ID() uint64
	// Disconnected reports whether the disconnect flag is set.
	Disconnected() bool
	// MarkDisconnected sets the flag and closes the socket. Only the first
	// reason is kept.
	MarkDisconnected(reason error)
	// Done is closed once the inbound goroutine has returned.
	Done() <-chan struct{}
	// WriteOutbound writes one complete outbound buffer to the socket.
	WriteOutbound(b []byte) error
}

// Registry tracks live connections by id.
type Registry struct {
	mu     sync.RWMutex
	conns  map[uint64]Conn
	logger zerolog.Logger
}

func New(logger zerolog.Logger) *Registry {
	return &Registry{
		conns:  make(map[uint64]Conn),
		logger: logger,
	}
}

// Register adds a connection.
func (r *Registry) Register(c Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[c.ID()]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicate, c.ID())
	}
	r.conns[c.ID()] = c
	return nil
}

// Lookup returns the connection registered under id.
func (r *Registry) Lookup(id uint64) (Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.conns[id]
	if !exists {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c, nil
}

// MarkDisconnected flags the connection. It stays registered until a sweep
// observes that its inbound goroutine has returned.
func (r *Registry) MarkDisconnected(id uint64, reason error) error {
	c, err := r.Lookup(id)
	if err != nil {
		return err
	}
	c.MarkDisconnected(reason)
	return nil
}

// Sweep removes every flagged connection whose inbound goroutine has
// returned and reports the removed ids. Flagged connections that are still
// running are left for a later sweep. Sweep never waits.
func (r *Registry) Sweep() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []uint64
	for id, c := range r.conns {
		if !c.Disconnected() {
			continue
		}
		select {
		case <-c.Done():
			delete(r.conns, id)
			removed = append(removed, id)
		default:
		}
	}
	if len(removed) > 0 {
		r.logger.Debug().
			Int("removed", len(removed)).
			Int("remaining", len(r.conns)).
			Msg("swept disconnected connections")
	}
	return removed
}

// Count returns the number of registered connections, flagged ones included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Range calls fn for a snapshot of the registered connections until fn
// returns false.
func (r *Registry) Range(fn func(Conn) bool) {
	for _, c := range r.snapshot() {
		if !fn(c) {
			return
		}
	}
}

// CloseAll marks every registered connection disconnected.
func (r *Registry) CloseAll(reason error) {
	conns := r.snapshot()
	for _, c := range conns {
		c.MarkDisconnected(reason)
	}
	if len(conns) > 0 {
		r.logger.Info().Int("count", len(conns)).Msg("disconnected all connections")
	}
}

// Wait blocks until the inbound goroutine of every registered connection has
// returned or ctx is done.
func (r *Registry) Wait(ctx context.Context) error {
	for _, c := range r.snapshot() {
		select {
		case <-c.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (r *Registry) snapshot() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}
