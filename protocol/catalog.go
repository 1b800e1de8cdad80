package protocol

import (
	"errors"
	"fmt"
)

const (
	Version     = 761
	VersionName = "1.19.3"
)

var (
	ErrUnknownPacketID = errors.New("unknown packet id")
	ErrMalformedPacket = errors.New("malformed packet")
)

// Packet is a typed packet. Marshal describes the payload layout for both
// directions.
type Packet interface {
	ID() int32
	State() State
	Marshal(io IO)
}

type catalog map[int32]func() Packet

var handshakeCatalog = catalog{
	IDHandshake: func() Packet { return &Handshake{} },
}

var statusCatalog = catalog{
	IDStatusRequest: func() Packet { return &StatusRequest{} },
	IDPingRequest:   func() Packet { return &PingRequest{} },
}

var loginCatalog = catalog{
	IDLoginStart:         func() Packet { return &LoginStart{} },
	IDEncryptionResponse: func() Packet { return &EncryptionResponse{} },
}

var playCatalog = catalog{
	IDConfirmTeleportation:         func() Packet { return &ConfirmTeleportation{} },
	IDQueryBlockEntityTag:          func() Packet { return &QueryBlockEntityTag{} },
	IDChangeDifficulty:             func() Packet { return &ChangeDifficulty{} },
	IDMessageAcknowledgement:       func() Packet { return &MessageAcknowledgement{} },
	IDChatCommand:                  func() Packet { return &ChatCommand{} },
	IDChatMessage:                  func() Packet { return &ChatMessage{} },
	IDClientCommand:                func() Packet { return &ClientCommand{} },
	IDClientInformation:            func() Packet { return &ClientInformation{} },
	IDCommandSuggestionRequest:     func() Packet { return &CommandSuggestionRequest{} },
	IDClickContainerButton:         func() Packet { return &ClickContainerButton{} },
	IDClickContainer:               func() Packet { return &ClickContainer{} },
	IDCloseContainerRequest:        func() Packet { return &CloseContainerRequest{} },
	IDPluginMessage:                func() Packet { return &PluginMessage{} },
	IDEditBook:                     func() Packet { return &EditBook{} },
	IDQueryEntityTag:               func() Packet { return &QueryEntityTag{} },
	IDInteract:                     func() Packet { return &Interact{} },
	IDJigsawGenerate:               func() Packet { return &JigsawGenerate{} },
	IDKeepAliveResponse:            func() Packet { return &KeepAliveResponse{} },
	IDLockDifficulty:               func() Packet { return &LockDifficulty{} },
	IDSetPlayerPosition:            func() Packet { return &SetPlayerPosition{} },
	IDSetPlayerPositionAndRotation: func() Packet { return &SetPlayerPositionAndRotation{} },
	IDSetPlayerRotation:            func() Packet { return &SetPlayerRotation{} },
	IDSetPlayerOnGround:            func() Packet { return &SetPlayerOnGround{} },
	IDMoveVehicle:                  func() Packet { return &MoveVehicle{} },
	IDPaddleBoat:                   func() Packet { return &PaddleBoat{} },
	IDPickItem:                     func() Packet { return &PickItem{} },
	IDPlaceRecipe:                  func() Packet { return &PlaceRecipe{} },
	IDPlayerAbilities:              func() Packet { return &PlayerAbilities{} },
	IDPlayerAction:                 func() Packet { return &PlayerAction{} },
	IDPlayerCommand:                func() Packet { return &PlayerCommand{} },
	IDPlayerInput:                  func() Packet { return &PlayerInput{} },
	IDPong:                         func() Packet { return &Pong{} },
	IDPlayerSession:                func() Packet { return &PlayerSession{} },
	IDChangeRecipeBookSettings:     func() Packet { return &ChangeRecipeBookSettings{} },
	IDSetSeenRecipe:                func() Packet { return &SetSeenRecipe{} },
	IDRenameItem:                   func() Packet { return &RenameItem{} },
	IDResourcePack:                 func() Packet { return &ResourcePack{} },
	IDSeenAdvancements:             func() Packet { return &SeenAdvancements{} },
	IDSelectTrade:                  func() Packet { return &SelectTrade{} },
	IDSetBeaconEffect:              func() Packet { return &SetBeaconEffect{} },
	IDSetHeldItem:                  func() Packet { return &SetHeldItem{} },
	IDProgramCommandBlock:          func() Packet { return &ProgramCommandBlock{} },
	IDProgramCommandBlockMinecart:  func() Packet { return &ProgramCommandBlockMinecart{} },
	IDSetCreativeModeSlot:          func() Packet { return &SetCreativeModeSlot{} },
	IDProgramJigsawBlock:           func() Packet { return &ProgramJigsawBlock{} },
	IDProgramStructureBlock:        func() Packet { return &ProgramStructureBlock{} },
	IDUpdateSign:                   func() Packet { return &UpdateSign{} },
	IDSwingArm:                     func() Packet { return &SwingArm{} },
	IDTeleportToEntity:             func() Packet { return &TeleportToEntity{} },
	IDUseItemOn:                    func() Packet { return &UseItemOn{} },
	IDUseItem:                      func() Packet { return &UseItem{} },
}

func catalogFor(state State) catalog {
	switch state {
	case StateHandshake:
		return handshakeCatalog
	case StateStatus:
		return statusCatalog
	case StateLogin:
		return loginCatalog
	case StatePlay:
		return playCatalog
	default:
		return nil
	}
}

// Dispatch parses a serverbound payload using the catalog of state. It returns
// the packet and the number of unread trailing bytes. An id missing from the
// catalog yields ErrUnknownPacketID, a payload that does not parse yields
// ErrMalformedPacket.
func Dispatch(state State, id int32, payload []byte) (Packet, int, error) {
	newPacket, ok := catalogFor(state)[id]
	if !ok {
		return nil, 0, fmt.Errorf("%w: 0x%02x in %s state", ErrUnknownPacketID, id, state)
	}
	pk := newPacket()
	r := NewReader(payload)
	pk.Marshal(r)
	if err := r.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %T: %w", ErrMalformedPacket, pk, err)
	}
	return pk, r.Remaining(), nil
}

// EncodePacket serializes pk into a complete frame.
func EncodePacket(pk Packet) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	w := NewWriter(buf)
	pk.Marshal(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode %T: %w", pk, err)
	}
	return AppendFrame(make([]byte, 0, buf.Len()+2*MaxVarIntLen), pk.ID(), buf.Bytes()), nil
}
