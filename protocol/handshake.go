package protocol

const IDHandshake int32 = 0x00

// Handshake opens every connection and selects the next state.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       State
}

func (*Handshake) ID() int32    { return IDHandshake }
func (*Handshake) State() State { return StateHandshake }

func (pk *Handshake) Marshal(io IO) {
	io.Varint32(&pk.ProtocolVersion)
	io.String(&pk.ServerAddress)
	io.Uint16(&pk.ServerPort)
	io.Varint32((*int32)(&pk.NextState))
}
