package conn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/auth"
	"github.com/Mmx233/Cubic/server/outbound"
	"github.com/Mmx233/Cubic/server/registry"
	"github.com/rs/zerolog"
)

var (
	ErrProtocolViolation = errors.New("protocol violation")
	ErrServerClosed      = errors.New("server closed")
	ErrKicked            = errors.New("disconnected by server")
)

const readBufferSize = 4096

// Options is shared by every connection of a server.
type Options struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxFrameLength int

	Auth     auth.Auth
	Status   StatusSource
	Handler  Handler
	Outbound Outbound
	Slots    Slots // optional
	Logger   zerolog.Logger
}

// Connection is one client socket and its protocol state. Only the inbound
// goroutine running Serve reads from the socket; only the outbound writer
// writes to it.
type Connection struct {
	id      uint64
	netConn net.Conn
	opts    *Options
	logger  zerolog.Logger

	state        atomic.Int32
	session      atomic.Pointer[auth.Session]
	disconnected atomic.Bool

	closeOnce sync.Once
	reason    error
	closing   chan struct{}
	done      chan struct{}

	// Owned by the inbound goroutine.
	buffered    *bufio.Reader
	src         io.Reader
	verifyToken []byte
	loginStart  *protocol.LoginStart
	holdsSlot   bool
}

var _ registry.Conn = (*Connection)(nil)

// New wraps an accepted socket. The connection starts in the Handshake state.
func New(id uint64, netConn net.Conn, opts *Options) *Connection {
	c := &Connection{
		id:      id,
		netConn: netConn,
		opts:    opts,
		logger: opts.Logger.With().
			Uint64("conn_id", id).
			Str("remote", netConn.RemoteAddr().String()).
			Logger(),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
		buffered: bufio.NewReaderSize(netConn, readBufferSize),
	}
	c.src = c.buffered
	return c
}

func (c *Connection) ID() uint64 { return c.id }

// State returns the current protocol state.
func (c *Connection) State() protocol.State {
	return protocol.State(c.state.Load())
}

// setState moves the connection forward. Only the inbound goroutine calls it.
func (c *Connection) setState(s protocol.State) error {
	if prev := c.State(); s <= prev {
		return fmt.Errorf("%w: state %s cannot follow %s", ErrProtocolViolation, s, prev)
	}
	c.state.Store(int32(s))
	c.logger.Trace().Stringer("state", s).Msg("state changed")
	return nil
}

func (c *Connection) Disconnected() bool { return c.disconnected.Load() }

// Reason returns why the connection was disconnected, or nil.
func (c *Connection) Reason() error {
	select {
	case <-c.closing:
		return c.reason
	default:
		return nil
	}
}

// MarkDisconnected sets the disconnect flag and closes the socket, which
// unblocks a pending read. Only the first call has any effect.
func (c *Connection) MarkDisconnected(reason error) {
	c.closeOnce.Do(func() {
		c.reason = reason
		c.disconnected.Store(true)
		close(c.closing)
		_ = c.netConn.Close()
		c.logger.Debug().AnErr("reason", reason).Msg("connection marked disconnected")
	})
}

// Done is closed when Serve returns.
func (c *Connection) Done() <-chan struct{} { return c.done }

// EnableEncryption installs the session. It can happen only once.
func (c *Connection) EnableEncryption(s *auth.Session) error {
	if !c.session.CompareAndSwap(nil, s) {
		return auth.ErrAlreadyEncrypted
	}
	return nil
}

// Encrypted reports whether a session is installed.
func (c *Connection) Encrypted() bool { return c.session.Load() != nil }

// WriteOutbound writes b to the socket, encrypting a pooled copy when a
// session is installed. b itself is never modified. It is called only by the
// outbound writer.
func (c *Connection) WriteOutbound(b []byte) error {
	if s := c.session.Load(); s != nil {
		buf := protocol.GetBufferWithSize(len(b))
		defer protocol.PutBuffer(buf)
		buf.Write(b)
		b = buf.Bytes()
		s.Encrypt(b)
	}
	if c.opts.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}
	if _, err := c.netConn.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Send queues a complete frame for this connection. data is not modified and
// may be shared with other connections, but must not change until written.
func (c *Connection) Send(data []byte) error {
	return c.opts.Outbound.Enqueue(outbound.Item{ConnID: c.id, Data: data}, c.closing)
}

// SendPacket encodes pk and queues it.
func (c *Connection) SendPacket(pk protocol.Packet) error {
	data, err := protocol.EncodePacket(pk)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// kick queues pk and disconnects once the writer has flushed it. The
// returned error wraps ErrKicked and ends the inbound loop.
func (c *Connection) kick(pk protocol.Packet, why string) error {
	reason := fmt.Errorf("%w: %s", ErrKicked, why)
	data, err := protocol.EncodePacket(pk)
	if err != nil {
		return err
	}
	item := outbound.Item{ConnID: c.id, Data: data, CloseReason: reason}
	if err := c.opts.Outbound.Enqueue(item, c.closing); err != nil {
		c.MarkDisconnected(reason)
	}
	return reason
}

// Disconnect tells the client why it is being dropped and closes the
// connection once that packet has been written. Connections that have not
// reached Login have no disconnect packet and are closed at once.
func (c *Connection) Disconnect(reason error, message string) error {
	var pk protocol.Packet
	switch c.State() {
	case protocol.StateLogin:
		pk = &protocol.LoginDisconnect{Reason: chatText(message)}
	case protocol.StatePlay:
		pk = &protocol.PlayDisconnect{Reason: chatText(message)}
	default:
		c.MarkDisconnected(reason)
		return nil
	}
	data, err := protocol.EncodePacket(pk)
	if err != nil {
		c.MarkDisconnected(reason)
		return err
	}
	item := outbound.Item{ConnID: c.id, Data: data, CloseReason: reason}
	if err := c.opts.Outbound.Enqueue(item, c.closing); err != nil {
		c.MarkDisconnected(reason)
		return err
	}
	return nil
}

// Serve runs the inbound loop until the connection is disconnected, the peer
// goes away or ctx is done. It returns the reason the loop ended.
func (c *Connection) Serve(ctx context.Context) (err error) {
	stop := context.AfterFunc(ctx, func() { c.MarkDisconnected(ErrServerClosed) })
	defer func() {
		stop()
		c.finish(err)
	}()

	c.logger.Debug().Msg("connection accepted")

	for !c.Disconnected() {
		if c.opts.ReadTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
				c.MarkDisconnected(err)
				return err
			}
		}

		frame, err := protocol.ReadFrame(c.src, c.opts.MaxFrameLength)
		if err != nil {
			if reason := c.Reason(); reason != nil {
				return reason
			}
			c.MarkDisconnected(err)
			return err
		}

		if err := c.handleFrame(frame); err != nil {
			if !errors.Is(err, ErrKicked) {
				c.MarkDisconnected(err)
			}
			return err
		}
	}
	return c.Reason()
}

func (c *Connection) finish(err error) {
	if c.holdsSlot && c.opts.Slots != nil {
		c.opts.Slots.Release()
		c.holdsSlot = false
	}

	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, ErrServerClosed):
		c.logger.Debug().AnErr("reason", err).Msg("connection closed")
	case errors.Is(err, auth.ErrVerification):
		c.logger.Warn().Err(err).Msg("encryption handshake failed")
	default:
		c.logger.Info().Err(err).Msg("connection closed with error")
	}

	if h, ok := c.opts.Handler.(DisconnectHandler); ok {
		h.HandleDisconnect(c.id, err)
	}
	close(c.done)
}

func (c *Connection) handleFrame(frame protocol.Frame) error {
	state := c.State()
	pk, trailing, err := protocol.Dispatch(state, frame.ID, frame.Payload)
	if errors.Is(err, protocol.ErrUnknownPacketID) {
		c.logger.Warn().
			Stringer("state", state).
			Int32("packet_id", frame.ID).
			Int("length", len(frame.Payload)).
			Msg("dropping unknown packet")
		return nil
	}
	if err != nil {
		return err
	}
	if trailing > 0 {
		c.logger.Debug().
			Str("packet", fmt.Sprintf("%T", pk)).
			Int("trailing", trailing).
			Msg("ignoring trailing bytes")
	}

	switch state {
	case protocol.StateHandshake:
		return c.handleHandshake(pk)
	case protocol.StateStatus:
		return c.handleStatus(pk)
	case protocol.StateLogin:
		return c.handleLogin(pk)
	default:
		if c.opts.Handler != nil {
			c.opts.Handler.HandlePacket(c.id, pk)
		}
		return nil
	}
}
