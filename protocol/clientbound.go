package protocol

import "github.com/google/uuid"

// Clientbound packets produced by the server itself. Their ids share the
// numbering space of the state they are sent in.
const (
	IDStatusResponse    int32 = 0x00
	IDPongResponse      int32 = 0x01
	IDLoginDisconnect   int32 = 0x00
	IDEncryptionRequest int32 = 0x01
	IDLoginSuccess      int32 = 0x02
	IDPlayDisconnect    int32 = 0x17
)

// StatusResponse carries the server list JSON document.
type StatusResponse struct {
	JSON string
}

func (*StatusResponse) ID() int32    { return IDStatusResponse }
func (*StatusResponse) State() State { return StateStatus }

func (pk *StatusResponse) Marshal(io IO) {
	io.String(&pk.JSON)
}

type PongResponse struct {
	Payload int64
}

func (*PongResponse) ID() int32    { return IDPongResponse }
func (*PongResponse) State() State { return StateStatus }

func (pk *PongResponse) Marshal(io IO) {
	io.Int64(&pk.Payload)
}

// LoginDisconnect closes a login with a chat component JSON reason.
type LoginDisconnect struct {
	Reason string
}

func (*LoginDisconnect) ID() int32    { return IDLoginDisconnect }
func (*LoginDisconnect) State() State { return StateLogin }

func (pk *LoginDisconnect) Marshal(io IO) {
	io.String(&pk.Reason)
}

// PlayDisconnect drops a player in the Play state with a chat component
// JSON reason.
type PlayDisconnect struct {
	Reason string
}

func (*PlayDisconnect) ID() int32    { return IDPlayDisconnect }
func (*PlayDisconnect) State() State { return StatePlay }

func (pk *PlayDisconnect) Marshal(io IO) {
	io.String(&pk.Reason)
}

type EncryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (*EncryptionRequest) ID() int32    { return IDEncryptionRequest }
func (*EncryptionRequest) State() State { return StateLogin }

func (pk *EncryptionRequest) Marshal(io IO) {
	io.String(&pk.ServerID)
	io.ByteSlice(&pk.PublicKey)
	io.ByteSlice(&pk.VerifyToken)
}

type LoginSuccess struct {
	UUID       uuid.UUID
	Username   string
	Properties []Property
}

func (*LoginSuccess) ID() int32    { return IDLoginSuccess }
func (*LoginSuccess) State() State { return StateLogin }

func (pk *LoginSuccess) Marshal(io IO) {
	io.UUID(&pk.UUID)
	io.String(&pk.Username)
	Slice(io, &pk.Properties, func(p *Property) { p.Marshal(io) })
}
