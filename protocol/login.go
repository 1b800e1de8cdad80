package protocol

import "github.com/google/uuid"

const (
	IDLoginStart         int32 = 0x00
	IDEncryptionResponse int32 = 0x01
)

// MaxUsernameLength is the longest accepted player name.
const MaxUsernameLength = 16

type LoginStart struct {
	Name          string
	HasPlayerUUID bool
	PlayerUUID    uuid.UUID
}

func (*LoginStart) ID() int32    { return IDLoginStart }
func (*LoginStart) State() State { return StateLogin }

func (pk *LoginStart) Marshal(io IO) {
	io.String(&pk.Name)
	if len(pk.Name) > MaxUsernameLength {
		io.InvalidValue(pk.Name, "name", "longer than 16 bytes")
	}
	Optional(io, &pk.HasPlayerUUID, &pk.PlayerUUID, io.UUID)
}

// EncryptionResponse carries the RSA encrypted shared secret. Without a verify
// token the client sends a salted signature instead.
type EncryptionResponse struct {
	SharedSecret     []byte
	HasVerifyToken   bool
	VerifyToken      []byte
	Salt             int64
	MessageSignature []byte
}

func (*EncryptionResponse) ID() int32    { return IDEncryptionResponse }
func (*EncryptionResponse) State() State { return StateLogin }

func (pk *EncryptionResponse) Marshal(io IO) {
	io.ByteSlice(&pk.SharedSecret)
	io.Bool(&pk.HasVerifyToken)
	if pk.HasVerifyToken {
		io.ByteSlice(&pk.VerifyToken)
		return
	}
	io.Int64(&pk.Salt)
	io.ByteSlice(&pk.MessageSignature)
}
