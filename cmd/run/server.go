package run

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Mmx233/Cubic/config"
	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server"
	"github.com/Mmx233/Cubic/server/conn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func runServer(cmd *cobra.Command, args []string) error {
	logger := log.With().Str("com", "server-cmd").Logger()

	// Load configuration
	logger.Info().Str("config", configFile).Msg("loading configuration")
	cfg, err := config.LoadServerConfig(configFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("starting Cubic server")
	if err := server.Run(ctx, cfg, newPacketLogger(logger)); err != nil {
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}

// packetLogger stands in for game logic: it only records what players send.
type packetLogger struct {
	logger zerolog.Logger
}

var (
	_ conn.LoginHandler      = (*packetLogger)(nil)
	_ conn.DisconnectHandler = (*packetLogger)(nil)
)

func newPacketLogger(logger zerolog.Logger) *packetLogger {
	return &packetLogger{logger: logger.With().Str("com", "game").Logger()}
}

func (p *packetLogger) HandlePacket(connID uint64, pkt protocol.Packet) {
	p.logger.Trace().
		Uint64("conn_id", connID).
		Int32("packet_id", pkt.ID()).
		Type("packet", pkt).
		Msg("play packet")
}

func (p *packetLogger) HandleLogin(connID uint64, profile conn.Profile) {
	p.logger.Info().
		Uint64("conn_id", connID).
		Str("player", profile.Name).
		Msg("player joined")
}

func (p *packetLogger) HandleDisconnect(connID uint64, reason error) {
	p.logger.Debug().
		Uint64("conn_id", connID).
		AnErr("reason", reason).
		Msg("connection ended")
}
