package config

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Zero valued fields receive the documented defaults.
func TestZeroValueDefaultsApplication_Property(t *testing.T) {
	s := &Server{}
	s.ApplyDefaults()

	if s.Listen.IP != DefaultIP || s.Listen.Port != DefaultPort {
		t.Fatalf("expected default listen %s:%d, got %s:%d", DefaultIP, DefaultPort, s.Listen.IP, s.Listen.Port)
	}
	if s.Motd != DefaultMotd {
		t.Fatalf("expected Motd=%q, got %q", DefaultMotd, s.Motd)
	}
	if s.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected MaxPlayers=%d, got %d", DefaultMaxPlayers, s.MaxPlayers)
	}
	if s.Encryption.KeyBits != DefaultKeyBits {
		t.Fatalf("expected KeyBits=%d, got %d", DefaultKeyBits, s.Encryption.KeyBits)
	}
	if s.Network.ReadTimeout != DefaultReadTimeout || s.Network.WriteTimeout != DefaultWriteTimeout {
		t.Fatalf("unexpected network timeouts %v/%v", s.Network.ReadTimeout, s.Network.WriteTimeout)
	}
	if s.Network.MaxFrameLength != DefaultMaxFrameLength {
		t.Fatalf("expected MaxFrameLength=%d, got %d", DefaultMaxFrameLength, s.Network.MaxFrameLength)
	}
	if s.Outbound.QueueSize != DefaultQueueSize {
		t.Fatalf("expected QueueSize=%d, got %d", DefaultQueueSize, s.Outbound.QueueSize)
	}
	if s.Outbound.SweepInterval != DefaultSweepInterval || s.Outbound.ShutdownGrace != DefaultShutdownGrace {
		t.Fatalf("unexpected outbound intervals %v/%v", s.Outbound.SweepInterval, s.Outbound.ShutdownGrace)
	}
	if s.Status.CacheTTL != DefaultStatusCacheTTL {
		t.Fatalf("expected CacheTTL=%v, got %v", DefaultStatusCacheTTL, s.Status.CacheTTL)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults must validate, got: %v", err)
	}
}

// Non-zero fields are never overwritten by defaults.
func TestExplicitValuesPreserved_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		port := rapid.IntRange(1, 65535).Draw(t, "port")
		maxPlayers := rapid.IntRange(1, 10000).Draw(t, "max_players")
		queueSize := rapid.IntRange(1, 1<<16).Draw(t, "queue_size")
		readTimeout := time.Duration(rapid.Int64Range(1, int64(time.Hour)).Draw(t, "read_timeout"))
		grace := time.Duration(rapid.Int64Range(1, int64(time.Minute)).Draw(t, "shutdown_grace"))

		s := &Server{
			Listen:     Listen{IP: "127.0.0.1", Port: port},
			MaxPlayers: maxPlayers,
			Network:    Network{ReadTimeout: readTimeout},
			Outbound:   Outbound{QueueSize: queueSize, ShutdownGrace: grace},
		}
		s.ApplyDefaults()

		if s.Listen.Port != port {
			t.Fatalf("expected Port=%d, got %d", port, s.Listen.Port)
		}
		if s.MaxPlayers != maxPlayers {
			t.Fatalf("expected MaxPlayers=%d, got %d", maxPlayers, s.MaxPlayers)
		}
		if s.Outbound.QueueSize != queueSize {
			t.Fatalf("expected QueueSize=%d, got %d", queueSize, s.Outbound.QueueSize)
		}
		if s.Network.ReadTimeout != readTimeout {
			t.Fatalf("expected ReadTimeout=%v, got %v", readTimeout, s.Network.ReadTimeout)
		}
		if s.Outbound.ShutdownGrace != grace {
			t.Fatalf("expected ShutdownGrace=%v, got %v", grace, s.Outbound.ShutdownGrace)
		}
		if err := s.Validate(); err != nil {
			t.Fatalf("expected valid config, got: %v", err)
		}
	})
}
