package conn

import (
	"github.com/Mmx233/Cubic/protocol"
	"github.com/Mmx233/Cubic/server/outbound"
	"github.com/google/uuid"
)

// Handler receives every Play state packet in the order it was read.
// HandlePacket runs on the connection's inbound goroutine and should not block
// for long.
type Handler interface {
	HandlePacket(connID uint64, pkt protocol.Packet)
}

// LoginHandler is optionally implemented by a Handler that wants to know when
// a connection enters the Play state.
type LoginHandler interface {
	HandleLogin(connID uint64, profile Profile)
}

// DisconnectHandler is optionally implemented by a Handler that wants to know
// when a connection's inbound goroutine ends.
type DisconnectHandler interface {
	HandleDisconnect(connID uint64, reason error)
}

// Profile identifies a logged in player.
type Profile struct {
	UUID uuid.UUID
	Name string
}

// StatusSource renders the server list status document.
type StatusSource interface {
	StatusJSON() (string, error)
}

// Slots limits how many connections may be in the Play state at once.
type Slots interface {
	Acquire() bool
	Release()
}

// Outbound is the queue in front of the single socket writer.
type Outbound interface {
	Enqueue(item outbound.Item, cancel <-chan struct{}) error
}
