package acceptor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Mmx233/Cubic/server/conn"
	"github.com/Mmx233/Cubic/server/connid"
	"github.com/Mmx233/Cubic/server/registry"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

type Options struct {
	Addr     string
	Conn     *conn.Options
	Registry *registry.Registry
	IDs      *connid.Generator

	// BaseContext returns the context connections are served with. The
	// context passed to Run is used when it is nil.
	BaseContext func() context.Context
	Logger      zerolog.Logger
}

// Acceptor owns the listening socket. It registers every accepted
// connection and starts its inbound goroutine, never blocking on one.
type Acceptor struct {
	opts     Options
	listener net.Listener
	conns    errgroup.Group
	logger   zerolog.Logger
}

func New(opts Options) *Acceptor {
	if opts.IDs == nil {
		opts.IDs = &connid.Generator{}
	}
	return &Acceptor{
		opts:   opts,
		logger: opts.Logger.With().Str("com", "acceptor").Logger(),
	}
}

// Listen binds the configured address.
func (a *Acceptor) Listen(ctx context.Context) error {
	lc := net.ListenConfig{
		Control: setSocketOptions,
	}
	listener, err := lc.Listen(ctx, "tcp", a.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen TCP: %w", err)
	}
	a.listener = listener
	a.logger.Info().Str("addr", listener.Addr().String()).Msg("TCP listener started")
	return nil
}

// Addr returns the bound address. Listen must have succeeded.
func (a *Acceptor) Addr() net.Addr { return a.listener.Addr() }

// Run accepts connections until ctx is done or the listener is closed.
func (a *Acceptor) Run(ctx context.Context) error {
	if a.listener == nil {
		return errors.New("acceptor is not listening")
	}
	stop := context.AfterFunc(ctx, func() { _ = a.listener.Close() })
	defer stop()

	connCtx := ctx
	if a.opts.BaseContext != nil {
		connCtx = a.opts.BaseContext()
	}

	var delay time.Duration
	for {
		nc, err := a.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				a.logger.Debug().Msg("accept loop stopped")
				return nil
			}
			delay = min(max(2*delay, minAcceptDelay), maxAcceptDelay)
			a.logger.Error().Err(err).Dur("retry_in", delay).Msg("accept TCP connection failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		delay = 0
		a.handle(connCtx, nc)
	}
}

func (a *Acceptor) handle(ctx context.Context, nc net.Conn) {
	if tc, ok := nc.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	c := conn.New(a.opts.IDs.Next(), nc, a.opts.Conn)
	if err := a.opts.Registry.Register(c); err != nil {
		a.logger.Error().Err(err).Uint64("conn_id", c.ID()).Msg("register connection failed")
		_ = nc.Close()
		return
	}

	// A failed connection must not cancel the others, so the error stays
	// with the connection.
	a.conns.Go(func() error {
		_ = c.Serve(ctx)
		return nil
	})
}

// Close stops accepting. Run returns shortly after.
func (a *Acceptor) Close() error {
	if a.listener == nil {
		return nil
	}
	if err := a.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Wait blocks until every inbound goroutine started by Run has returned.
func (a *Acceptor) Wait() error {
	return a.conns.Wait()
}
