package config

import (
	"time"

	"github.com/Mmx233/Cubic/protocol"
)

// Default values applied to zero fields of Server.
const (
	// DefaultIP is the IPv6 wildcard, which also accepts IPv4 clients
	// through a dual-stack socket
	DefaultIP         = "::"
	DefaultPort       = 25565
	DefaultMotd       = "A Cubic Server"
	DefaultMaxPlayers = 20

	// DefaultKeyBits is the RSA modulus size vanilla clients expect
	DefaultKeyBits = 1024

	// DefaultReadTimeout disconnects clients that stay silent for this long
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout bounds a single socket write in the outbound writer
	DefaultWriteTimeout = 10 * time.Second

	DefaultMaxFrameLength = protocol.MaxFrameLength

	// DefaultQueueSize is the capacity of the shared outbound queue
	DefaultQueueSize = 1024

	// DefaultSweepInterval is how often an idle writer removes dead connections
	DefaultSweepInterval = 5 * time.Second

	// DefaultShutdownGrace bounds how long shutdown waits for queued writes
	DefaultShutdownGrace = 5 * time.Second

	// DefaultStatusCacheTTL is how long a rendered status document is reused
	DefaultStatusCacheTTL = time.Second
)

// ApplyDefaults fills every zero valued field.
func (s *Server) ApplyDefaults() {
	if s.Listen.IP == "" {
		s.Listen.IP = DefaultIP
	}
	if s.Listen.Port == 0 {
		s.Listen.Port = DefaultPort
	}
	if s.Motd == "" {
		s.Motd = DefaultMotd
	}
	if s.MaxPlayers == 0 {
		s.MaxPlayers = DefaultMaxPlayers
	}
	if s.Encryption.KeyBits == 0 {
		s.Encryption.KeyBits = DefaultKeyBits
	}
	if s.Network.ReadTimeout == 0 {
		s.Network.ReadTimeout = DefaultReadTimeout
	}
	if s.Network.WriteTimeout == 0 {
		s.Network.WriteTimeout = DefaultWriteTimeout
	}
	if s.Network.MaxFrameLength == 0 {
		s.Network.MaxFrameLength = DefaultMaxFrameLength
	}
	if s.Outbound.QueueSize == 0 {
		s.Outbound.QueueSize = DefaultQueueSize
	}
	if s.Outbound.SweepInterval == 0 {
		s.Outbound.SweepInterval = DefaultSweepInterval
	}
	if s.Outbound.ShutdownGrace == 0 {
		s.Outbound.ShutdownGrace = DefaultShutdownGrace
	}
	if s.Status.CacheTTL == 0 {
		s.Status.CacheTTL = DefaultStatusCacheTTL
	}
}
