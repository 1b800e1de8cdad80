package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/tools"
)

var ErrInvalidConfig = errors.New("invalid config")

type Server struct {
	Listen     Listen     `yaml:"listen"`
	Motd       string     `yaml:"motd"`
	MaxPlayers int        `yaml:"max_players"`
	Encryption Encryption `yaml:"encryption"`
	Network    Network    `yaml:"network"`
	Outbound   Outbound   `yaml:"outbound"`
	Status     Status     `yaml:"status"`
}

type Encryption struct {
	KeyBits int `yaml:"key_bits"`

	// PrivateKeyFile is a PEM RSA key. A fresh key is generated at startup
	// when it is empty.
	PrivateKeyFile string `yaml:"private_key_file"`
}

type Network struct {
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxFrameLength int           `yaml:"max_frame_length"`
}

type Outbound struct {
	QueueSize     int           `yaml:"queue_size"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

type Status struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Favicon is a 64x64 PNG file shown in the server list.
	Favicon string `yaml:"favicon"`
}

// ApplyEnv overrides fields from CUBIC_ prefixed environment variables.
func (s *Server) ApplyEnv() error {
	s.Listen.IP = tools.GetenvDefault(EnvPrefix+"IP", s.Listen.IP)
	s.Motd = tools.GetenvDefault(EnvPrefix+"MOTD", s.Motd)

	port, err := tools.GetenvInt(EnvPrefix+"PORT", s.Listen.Port)
	if err != nil {
		return err
	}
	s.Listen.Port = port

	maxPlayers, err := tools.GetenvInt(EnvPrefix+"MAX_PLAYERS", s.MaxPlayers)
	if err != nil {
		return err
	}
	s.MaxPlayers = maxPlayers
	return nil
}

// Validate reports the first field that cannot be used. Call it after
// ApplyDefaults.
func (s *Server) Validate() error {
	if _, err := s.Listen.GetIP(); err != nil {
		return fmt.Errorf("%w: listen: %w", ErrInvalidConfig, err)
	}
	if s.Listen.Port < 1 || s.Listen.Port > 65535 {
		return fmt.Errorf("%w: listen port %d out of range", ErrInvalidConfig, s.Listen.Port)
	}
	if s.MaxPlayers < 1 {
		return fmt.Errorf("%w: max_players must be positive, got %d", ErrInvalidConfig, s.MaxPlayers)
	}
	if s.Encryption.KeyBits < DefaultKeyBits {
		return fmt.Errorf("%w: encryption key_bits must be at least %d, got %d", ErrInvalidConfig, DefaultKeyBits, s.Encryption.KeyBits)
	}
	if s.Network.ReadTimeout < 0 || s.Network.WriteTimeout < 0 {
		return fmt.Errorf("%w: network timeouts must not be negative", ErrInvalidConfig)
	}
	if s.Network.MaxFrameLength < 1 || s.Network.MaxFrameLength > protocol.MaxFrameLength {
		return fmt.Errorf("%w: max_frame_length must be in [1, %d], got %d",
			ErrInvalidConfig, protocol.MaxFrameLength, s.Network.MaxFrameLength)
	}
	if s.Outbound.QueueSize < 1 {
		return fmt.Errorf("%w: outbound queue_size must be positive, got %d", ErrInvalidConfig, s.Outbound.QueueSize)
	}
	if s.Outbound.SweepInterval < 0 || s.Outbound.ShutdownGrace < 0 {
		return fmt.Errorf("%w: outbound intervals must not be negative", ErrInvalidConfig)
	}
	if s.Status.CacheTTL < 0 {
		return fmt.Errorf("%w: status cache_ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}
