package protocol

const (
	IDStatusRequest int32 = 0x00
	IDPingRequest   int32 = 0x01
)

type StatusRequest struct{}

func (*StatusRequest) ID() int32    { return IDStatusRequest }
func (*StatusRequest) State() State { return StateStatus }
func (*StatusRequest) Marshal(IO)   {}

type PingRequest struct {
	Payload int64
}

func (*PingRequest) ID() int32    { return IDPingRequest }
func (*PingRequest) State() State { return StateStatus }

func (pk *PingRequest) Marshal(io IO) {
	io.Int64(&pk.Payload)
}
