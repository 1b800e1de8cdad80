package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Mmx233/Cubic/config"
	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/acceptor"
	"github.com/Mmx233/Cubic/server/auth/challenge"
	"github.com/Mmx233/Cubic/server/conn"
	"github.com/Mmx233/Cubic/server/outbound"
	"github.com/Mmx233/Cubic/server/registry"
	"github.com/Mmx233/Cubic/server/status"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// shutdownMessage is shown to clients dropped by Shutdown.
const shutdownMessage = "Server closed"

// Server represents the Cubic network core
type Server struct {
	config   *config.Server
	registry *registry.Registry
	queue    *outbound.Queue
	writer   *outbound.Writer
	acceptor *acceptor.Acceptor
	status   *status.Provider
	slots    *playerSlots
	logger   zerolog.Logger

	connCtx      context.Context
	cancelConns  context.CancelFunc
	stopAccept   context.CancelFunc
	stopWriter   context.CancelFunc
	accepting    errgroup.Group
	writing      errgroup.Group
	stopping     chan struct{}
	started      bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a new server. handler receives every Play state packet and
// may also implement conn.LoginHandler and conn.DisconnectHandler.
func New(conf *config.Server, handler conn.Handler) (*Server, error) {
	// Apply defaults to ensure all required fields have values
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	logger := log.With().Str("com", "server").Logger()

	keypair, err := loadKeypair(conf.Encryption)
	if err != nil {
		return nil, fmt.Errorf("load encryption key: %w", err)
	}
	authenticator, err := challenge.New(keypair)
	if err != nil {
		return nil, fmt.Errorf("create authenticator: %w", err)
	}

	slots := &playerSlots{max: int64(conf.MaxPlayers)}
	statusProvider, err := status.New(status.Options{
		Motd:        conf.Motd,
		MaxPlayers:  conf.MaxPlayers,
		Online:      slots,
		FaviconFile: conf.Status.Favicon,
		CacheTTL:    conf.Status.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create status provider: %w", err)
	}

	reg := registry.New(log.With().Str("com", "registry").Logger())
	queue := outbound.NewQueue(conf.Outbound.QueueSize)
	writer := outbound.NewWriter(queue, reg, conf.Outbound.SweepInterval, log.With().Str("com", "outbound").Logger())

	connCtx, cancelConns := context.WithCancel(context.Background())
	s := &Server{
		config:      conf,
		registry:    reg,
		queue:       queue,
		writer:      writer,
		status:      statusProvider,
		slots:       slots,
		logger:      logger,
		connCtx:     connCtx,
		cancelConns: cancelConns,
		stopping:    make(chan struct{}),
	}
	s.acceptor = acceptor.New(acceptor.Options{
		Addr: conf.Listen.Addr(),
		Conn: &conn.Options{
			ReadTimeout:    conf.Network.ReadTimeout,
			WriteTimeout:   conf.Network.WriteTimeout,
			MaxFrameLength: conf.Network.MaxFrameLength,
			Auth:           authenticator,
			Status:         statusProvider,
			Handler:        handler,
			Outbound:       queue,
			Slots:          slots,
			Logger:         log.With().Str("com", "conn").Logger(),
		},
		Registry:    reg,
		BaseContext: func() context.Context { return s.connCtx },
		Logger:      log.Logger,
	})
	return s, nil
}

func loadKeypair(conf config.Encryption) (*challenge.Keypair, error) {
	if conf.PrivateKeyFile != "" {
		return challenge.LoadKeypair(conf.PrivateKeyFile)
	}
	start := time.Now()
	key, err := challenge.GenerateKeypair(conf.KeyBits)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("bits", conf.KeyBits).Dur("took", time.Since(start)).Msg("generated RSA key pair")
	return key, nil
}

// Start binds the listener and starts the acceptor and the outbound writer.
// ctx only bounds the bind; call Shutdown to stop the server.
func (s *Server) Start(ctx context.Context) error {
	if err := s.acceptor.Listen(ctx); err != nil {
		return err
	}

	writerCtx, stopWriter := context.WithCancel(context.Background())
	s.stopWriter = stopWriter
	s.writing.Go(func() error { return s.writer.Run(writerCtx) })

	acceptCtx, stopAccept := context.WithCancel(context.Background())
	s.stopAccept = stopAccept
	s.accepting.Go(func() error { return s.acceptor.Run(acceptCtx) })

	s.started = true
	s.logger.Info().
		Str("addr", s.acceptor.Addr().String()).
		Str("version", protocol.VersionName).
		Int("max_players", s.config.MaxPlayers).
		Msg("server started")
	return nil
}

// Addr returns the listening address. Start must have succeeded.
func (s *Server) Addr() net.Addr { return s.acceptor.Addr() }

// Online returns the number of players in the Play state.
func (s *Server) Online() int { return s.slots.Online() }

// Registry exposes the live connections.
func (s *Server) Registry() *registry.Registry { return s.registry }

// Send queues a complete frame for a connection. It blocks while the queue
// is full. data is never modified, so the same frame can be sent to many
// connections, but the caller must not change it until it has been written.
func (s *Server) Send(connID uint64, data []byte) error {
	if _, err := s.registry.Lookup(connID); err != nil {
		return err
	}
	return s.queue.Enqueue(outbound.Item{ConnID: connID, Data: data}, s.stopping)
}

// SendPacket encodes pk and queues it for a connection.
func (s *Server) SendPacket(connID uint64, pk protocol.Packet) error {
	data, err := protocol.EncodePacket(pk)
	if err != nil {
		return err
	}
	return s.Send(connID, data)
}

// Shutdown stops accepting, queues a disconnect packet for every client,
// drains the outbound queue within the configured grace period, closes what
// is left, waits for all inbound goroutines and finally stops the writer.
// Later calls return the first result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.shutdownErr = s.shutdown(ctx)
	})
	return s.shutdownErr
}

func (s *Server) shutdown(ctx context.Context) error {
	close(s.stopping)
	defer s.queue.Close()
	defer s.cancelConns()

	if !s.started {
		return nil
	}
	s.logger.Info().Msg("server shutting down")

	s.stopAccept()
	_ = s.acceptor.Close()
	if err := s.accepting.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("acceptor stopped with error")
	}

	s.disconnectAll()
	if !s.writer.Drain(s.config.Outbound.ShutdownGrace) {
		s.logger.Warn().Int("pending", s.queue.Len()).Msg("outbound queue not drained")
	}
	s.registry.CloseAll(conn.ErrServerClosed)

	inbound := make(chan struct{})
	go func() {
		_ = s.acceptor.Wait()
		close(inbound)
	}()
	var waitErr error
	select {
	case <-inbound:
	case <-ctx.Done():
		waitErr = fmt.Errorf("wait for connections: %w", ctx.Err())
	}

	s.stopWriter()
	if err := s.writing.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("outbound writer stopped with error")
	}
	s.registry.Sweep()

	s.logger.Info().Msg("server stopped")
	return waitErr
}

// disconnecter is implemented by *conn.Connection.
type disconnecter interface {
	Disconnect(reason error, message string) error
}

var _ disconnecter = (*conn.Connection)(nil)

// disconnectAll queues a disconnect packet for every live connection. Each
// connection closes itself once its packet has been written.
func (s *Server) disconnectAll() {
	s.registry.Range(func(c registry.Conn) bool {
		d, ok := c.(disconnecter)
		if !ok || c.Disconnected() {
			return true
		}
		if err := d.Disconnect(conn.ErrServerClosed, shutdownMessage); err != nil {
			s.logger.Debug().Err(err).Uint64("conn_id", c.ID()).Msg("disconnect not queued")
		}
		return true
	})
}

// Run starts a server and shuts it down once ctx is done.
func Run(ctx context.Context, conf *config.Server, handler conn.Handler) error {
	srv, err := New(conf, handler)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	// Leave room for the drain plus the inbound goroutines to notice their
	// closed sockets.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*conf.Outbound.ShutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
