package protocol

import "github.com/google/uuid"

// Serverbound play packet ids.
const (
	IDConfirmTeleportation int32 = iota
	IDQueryBlockEntityTag
	IDChangeDifficulty
	IDMessageAcknowledgement
	IDChatCommand
	IDChatMessage
	IDClientCommand
	IDClientInformation
	IDCommandSuggestionRequest
	IDClickContainerButton
	IDClickContainer
	IDCloseContainerRequest
	IDPluginMessage
	IDEditBook
	IDQueryEntityTag
	IDInteract
	IDJigsawGenerate
	IDKeepAliveResponse
	IDLockDifficulty
	IDSetPlayerPosition
	IDSetPlayerPositionAndRotation
	IDSetPlayerRotation
	IDSetPlayerOnGround
	IDMoveVehicle
	IDPaddleBoat
	IDPickItem
	IDPlaceRecipe
	IDPlayerAbilities
	IDPlayerAction
	IDPlayerCommand
	IDPlayerInput
	IDPong
	IDPlayerSession
	IDChangeRecipeBookSettings
	IDSetSeenRecipe
	IDRenameItem
	IDResourcePack
	IDSeenAdvancements
	IDSelectTrade
	IDSetBeaconEffect
	IDSetHeldItem
	IDProgramCommandBlock
	IDProgramCommandBlockMinecart
	IDSetCreativeModeSlot
	IDProgramJigsawBlock
	IDProgramStructureBlock
	IDUpdateSign
	IDSwingArm
	IDTeleportToEntity
	IDUseItemOn
	IDUseItem
)

type ConfirmTeleportation struct {
	TeleportID int32
}

func (*ConfirmTeleportation) ID() int32    { return IDConfirmTeleportation }
func (*ConfirmTeleportation) State() State { return StatePlay }

func (pk *ConfirmTeleportation) Marshal(io IO) {
	io.Varint32(&pk.TeleportID)
}

type QueryBlockEntityTag struct {
	TransactionID int32
	Location      Position
}

func (*QueryBlockEntityTag) ID() int32    { return IDQueryBlockEntityTag }
func (*QueryBlockEntityTag) State() State { return StatePlay }

func (pk *QueryBlockEntityTag) Marshal(io IO) {
	io.Varint32(&pk.TransactionID)
	io.Position(&pk.Location)
}

type ChangeDifficulty struct {
	Difficulty uint8
}

func (*ChangeDifficulty) ID() int32    { return IDChangeDifficulty }
func (*ChangeDifficulty) State() State { return StatePlay }

func (pk *ChangeDifficulty) Marshal(io IO) {
	io.Uint8(&pk.Difficulty)
}

type MessageAcknowledgement struct {
	MessageCount int32
}

func (*MessageAcknowledgement) ID() int32    { return IDMessageAcknowledgement }
func (*MessageAcknowledgement) State() State { return StatePlay }

func (pk *MessageAcknowledgement) Marshal(io IO) {
	io.Varint32(&pk.MessageCount)
}

type ChatCommand struct {
	Command            string
	Timestamp          int64
	Salt               int64
	ArgumentSignatures []ArgumentSignature
	MessageCount       int32
	Acknowledged       BitSet20
}

func (*ChatCommand) ID() int32    { return IDChatCommand }
func (*ChatCommand) State() State { return StatePlay }

func (pk *ChatCommand) Marshal(io IO) {
	io.String(&pk.Command)
	io.Int64(&pk.Timestamp)
	io.Int64(&pk.Salt)
	Slice(io, &pk.ArgumentSignatures, func(s *ArgumentSignature) { s.Marshal(io) })
	io.Varint32(&pk.MessageCount)
	io.FixedBytes(pk.Acknowledged[:])
}

type ChatMessage struct {
	Message      string
	Timestamp    int64
	Salt         int64
	HasSignature bool
	Signature    Signature
	MessageCount int32
	Acknowledged BitSet20
}

func (*ChatMessage) ID() int32    { return IDChatMessage }
func (*ChatMessage) State() State { return StatePlay }

func (pk *ChatMessage) Marshal(io IO) {
	io.String(&pk.Message)
	io.Int64(&pk.Timestamp)
	io.Int64(&pk.Salt)
	io.Bool(&pk.HasSignature)
	if pk.HasSignature {
		io.FixedBytes(pk.Signature[:])
	}
	io.Varint32(&pk.MessageCount)
	io.FixedBytes(pk.Acknowledged[:])
}

const (
	ClientCommandRespawn int32 = iota
	ClientCommandRequestStats
)

type ClientCommand struct {
	Action int32
}

func (*ClientCommand) ID() int32    { return IDClientCommand }
func (*ClientCommand) State() State { return StatePlay }

func (pk *ClientCommand) Marshal(io IO) {
	io.Varint32(&pk.Action)
}

const (
	ChatModeEnabled int32 = iota
	ChatModeCommandsOnly
	ChatModeHidden
)

type ClientInformation struct {
	Locale              string
	ViewDistance        int8
	ChatMode            int32
	ChatColors          bool
	DisplayedSkinParts  uint8
	MainHand            int32
	EnableTextFiltering bool
	AllowServerListings bool
}

func (*ClientInformation) ID() int32    { return IDClientInformation }
func (*ClientInformation) State() State { return StatePlay }

func (pk *ClientInformation) Marshal(io IO) {
	io.String(&pk.Locale)
	io.Int8(&pk.ViewDistance)
	io.Varint32(&pk.ChatMode)
	io.Bool(&pk.ChatColors)
	io.Uint8(&pk.DisplayedSkinParts)
	io.Varint32(&pk.MainHand)
	io.Bool(&pk.EnableTextFiltering)
	io.Bool(&pk.AllowServerListings)
}

type CommandSuggestionRequest struct {
	TransactionID int32
	Text          string
}

func (*CommandSuggestionRequest) ID() int32    { return IDCommandSuggestionRequest }
func (*CommandSuggestionRequest) State() State { return StatePlay }

func (pk *CommandSuggestionRequest) Marshal(io IO) {
	io.Varint32(&pk.TransactionID)
	io.String(&pk.Text)
}

type ClickContainerButton struct {
	WindowID int8
	ButtonID int8
}

func (*ClickContainerButton) ID() int32    { return IDClickContainerButton }
func (*ClickContainerButton) State() State { return StatePlay }

func (pk *ClickContainerButton) Marshal(io IO) {
	io.Int8(&pk.WindowID)
	io.Int8(&pk.ButtonID)
}

type ClickContainer struct {
	WindowID     uint8
	StateID      int32
	Slot         int16
	Button       int8
	Mode         int32
	ChangedSlots []SlotWithIndex
	CarriedItem  Slot
}

func (*ClickContainer) ID() int32    { return IDClickContainer }
func (*ClickContainer) State() State { return StatePlay }

func (pk *ClickContainer) Marshal(io IO) {
	io.Uint8(&pk.WindowID)
	io.Varint32(&pk.StateID)
	io.Int16(&pk.Slot)
	io.Int8(&pk.Button)
	io.Varint32(&pk.Mode)
	Slice(io, &pk.ChangedSlots, func(s *SlotWithIndex) { s.Marshal(io) })
	io.Slot(&pk.CarriedItem)
}

type CloseContainerRequest struct {
	WindowID uint8
}

func (*CloseContainerRequest) ID() int32    { return IDCloseContainerRequest }
func (*CloseContainerRequest) State() State { return StatePlay }

func (pk *CloseContainerRequest) Marshal(io IO) {
	io.Uint8(&pk.WindowID)
}

// PluginMessage data runs to the end of the frame.
type PluginMessage struct {
	Channel string
	Data    []byte
}

func (*PluginMessage) ID() int32    { return IDPluginMessage }
func (*PluginMessage) State() State { return StatePlay }

func (pk *PluginMessage) Marshal(io IO) {
	io.String(&pk.Channel)
	io.RemainingBytes(&pk.Data)
}

type EditBook struct {
	Slot     int32
	Entries  []string
	HasTitle bool
	Title    string
}

func (*EditBook) ID() int32    { return IDEditBook }
func (*EditBook) State() State { return StatePlay }

func (pk *EditBook) Marshal(io IO) {
	io.Varint32(&pk.Slot)
	Slice(io, &pk.Entries, io.String)
	Optional(io, &pk.HasTitle, &pk.Title, io.String)
}

type QueryEntityTag struct {
	TransactionID int32
	EntityID      int32
}

func (*QueryEntityTag) ID() int32    { return IDQueryEntityTag }
func (*QueryEntityTag) State() State { return StatePlay }

func (pk *QueryEntityTag) Marshal(io IO) {
	io.Varint32(&pk.TransactionID)
	io.Varint32(&pk.EntityID)
}

const (
	InteractTypeInteract int32 = iota
	InteractTypeAttack
	InteractTypeInteractAt
)

// Interact carries a target only for InteractAt and a hand for everything but
// Attack.
type Interact struct {
	EntityID int32
	Type     int32
	TargetX  float32
	TargetY  float32
	TargetZ  float32
	Hand     Hand
	Sneaking bool
}

func (*Interact) ID() int32    { return IDInteract }
func (*Interact) State() State { return StatePlay }

func (pk *Interact) Marshal(io IO) {
	io.Varint32(&pk.EntityID)
	io.Varint32(&pk.Type)
	switch pk.Type {
	case InteractTypeInteract, InteractTypeAttack, InteractTypeInteractAt:
	default:
		io.InvalidValue(pk.Type, "type", "unknown interaction")
		return
	}
	if pk.Type == InteractTypeInteractAt {
		io.Float32(&pk.TargetX)
		io.Float32(&pk.TargetY)
		io.Float32(&pk.TargetZ)
	}
	if pk.Type != InteractTypeAttack {
		io.Varint32((*int32)(&pk.Hand))
	}
	io.Bool(&pk.Sneaking)
}

type JigsawGenerate struct {
	Location    Position
	Levels      int32
	KeepJigsaws bool
}

func (*JigsawGenerate) ID() int32    { return IDJigsawGenerate }
func (*JigsawGenerate) State() State { return StatePlay }

func (pk *JigsawGenerate) Marshal(io IO) {
	io.Position(&pk.Location)
	io.Varint32(&pk.Levels)
	io.Bool(&pk.KeepJigsaws)
}

type KeepAliveResponse struct {
	KeepAliveID int64
}

func (*KeepAliveResponse) ID() int32    { return IDKeepAliveResponse }
func (*KeepAliveResponse) State() State { return StatePlay }

func (pk *KeepAliveResponse) Marshal(io IO) {
	io.Int64(&pk.KeepAliveID)
}

type LockDifficulty struct {
	Locked bool
}

func (*LockDifficulty) ID() int32    { return IDLockDifficulty }
func (*LockDifficulty) State() State { return StatePlay }

func (pk *LockDifficulty) Marshal(io IO) {
	io.Bool(&pk.Locked)
}

type SetPlayerPosition struct {
	X, FeetY, Z float64
	OnGround    bool
}

func (*SetPlayerPosition) ID() int32    { return IDSetPlayerPosition }
func (*SetPlayerPosition) State() State { return StatePlay }

func (pk *SetPlayerPosition) Marshal(io IO) {
	io.Float64(&pk.X)
	io.Float64(&pk.FeetY)
	io.Float64(&pk.Z)
	io.Bool(&pk.OnGround)
}

type SetPlayerPositionAndRotation struct {
	X, FeetY, Z float64
	Yaw, Pitch  float32
	OnGround    bool
}

func (*SetPlayerPositionAndRotation) ID() int32    { return IDSetPlayerPositionAndRotation }
func (*SetPlayerPositionAndRotation) State() State { return StatePlay }

func (pk *SetPlayerPositionAndRotation) Marshal(io IO) {
	io.Float64(&pk.X)
	io.Float64(&pk.FeetY)
	io.Float64(&pk.Z)
	io.Float32(&pk.Yaw)
	io.Float32(&pk.Pitch)
	io.Bool(&pk.OnGround)
}

type SetPlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (*SetPlayerRotation) ID() int32    { return IDSetPlayerRotation }
func (*SetPlayerRotation) State() State { return StatePlay }

func (pk *SetPlayerRotation) Marshal(io IO) {
	io.Float32(&pk.Yaw)
	io.Float32(&pk.Pitch)
	io.Bool(&pk.OnGround)
}

type SetPlayerOnGround struct {
	OnGround bool
}

func (*SetPlayerOnGround) ID() int32    { return IDSetPlayerOnGround }
func (*SetPlayerOnGround) State() State { return StatePlay }

func (pk *SetPlayerOnGround) Marshal(io IO) {
	io.Bool(&pk.OnGround)
}

type MoveVehicle struct {
	X, Y, Z    float64
	Yaw, Pitch float32
}

func (*MoveVehicle) ID() int32    { return IDMoveVehicle }
func (*MoveVehicle) State() State { return StatePlay }

func (pk *MoveVehicle) Marshal(io IO) {
	io.Float64(&pk.X)
	io.Float64(&pk.Y)
	io.Float64(&pk.Z)
	io.Float32(&pk.Yaw)
	io.Float32(&pk.Pitch)
}

type PaddleBoat struct {
	LeftPaddleTurning  bool
	RightPaddleTurning bool
}

func (*PaddleBoat) ID() int32    { return IDPaddleBoat }
func (*PaddleBoat) State() State { return StatePlay }

func (pk *PaddleBoat) Marshal(io IO) {
	io.Bool(&pk.LeftPaddleTurning)
	io.Bool(&pk.RightPaddleTurning)
}

type PickItem struct {
	SlotToUse int32
}

func (*PickItem) ID() int32    { return IDPickItem }
func (*PickItem) State() State { return StatePlay }

func (pk *PickItem) Marshal(io IO) {
	io.Varint32(&pk.SlotToUse)
}

type PlaceRecipe struct {
	WindowID int8
	Recipe   string
	MakeAll  bool
}

func (*PlaceRecipe) ID() int32    { return IDPlaceRecipe }
func (*PlaceRecipe) State() State { return StatePlay }

func (pk *PlaceRecipe) Marshal(io IO) {
	io.Int8(&pk.WindowID)
	io.String(&pk.Recipe)
	io.Bool(&pk.MakeAll)
}

// Player ability flags.
const (
	AbilityInvulnerable uint8 = 1 << iota
	AbilityFlying
	AbilityAllowFlying
	AbilityCreativeMode
)

type PlayerAbilities struct {
	Flags uint8
}

func (*PlayerAbilities) ID() int32    { return IDPlayerAbilities }
func (*PlayerAbilities) State() State { return StatePlay }

func (pk *PlayerAbilities) Marshal(io IO) {
	io.Uint8(&pk.Flags)
}

const (
	DiggingStarted int32 = iota
	DiggingCancelled
	DiggingFinished
	DropItemStack
	DropItem
	ShootArrowOrFinishEating
	SwapItemInHand
)

type PlayerAction struct {
	Status   int32
	Location Position
	Face     int8
	Sequence int32
}

func (*PlayerAction) ID() int32    { return IDPlayerAction }
func (*PlayerAction) State() State { return StatePlay }

func (pk *PlayerAction) Marshal(io IO) {
	io.Varint32(&pk.Status)
	io.Position(&pk.Location)
	io.Int8(&pk.Face)
	io.Varint32(&pk.Sequence)
}

type PlayerCommand struct {
	EntityID  int32
	ActionID  int32
	JumpBoost int32
}

func (*PlayerCommand) ID() int32    { return IDPlayerCommand }
func (*PlayerCommand) State() State { return StatePlay }

func (pk *PlayerCommand) Marshal(io IO) {
	io.Varint32(&pk.EntityID)
	io.Varint32(&pk.ActionID)
	io.Varint32(&pk.JumpBoost)
}

type PlayerInput struct {
	Sideways float32
	Forward  float32
	Flags    uint8
}

func (*PlayerInput) ID() int32    { return IDPlayerInput }
func (*PlayerInput) State() State { return StatePlay }

func (pk *PlayerInput) Marshal(io IO) {
	io.Float32(&pk.Sideways)
	io.Float32(&pk.Forward)
	io.Uint8(&pk.Flags)
}

// Pong answers a play state ping. It is unrelated to the status PingRequest.
type Pong struct {
	PingID int32
}

func (*Pong) ID() int32    { return IDPong }
func (*Pong) State() State { return StatePlay }

func (pk *Pong) Marshal(io IO) {
	io.Int32(&pk.PingID)
}

type PlayerSession struct {
	SessionID uuid.UUID
	ExpiresAt int64
	PublicKey []byte
	Signature []byte
}

func (*PlayerSession) ID() int32    { return IDPlayerSession }
func (*PlayerSession) State() State { return StatePlay }

func (pk *PlayerSession) Marshal(io IO) {
	io.UUID(&pk.SessionID)
	io.Int64(&pk.ExpiresAt)
	io.ByteSlice(&pk.PublicKey)
	io.ByteSlice(&pk.Signature)
}

type ChangeRecipeBookSettings struct {
	BookID       int32
	BookOpen     bool
	FilterActive bool
}

func (*ChangeRecipeBookSettings) ID() int32    { return IDChangeRecipeBookSettings }
func (*ChangeRecipeBookSettings) State() State { return StatePlay }

func (pk *ChangeRecipeBookSettings) Marshal(io IO) {
	io.Varint32(&pk.BookID)
	io.Bool(&pk.BookOpen)
	io.Bool(&pk.FilterActive)
}

type SetSeenRecipe struct {
	RecipeID string
}

func (*SetSeenRecipe) ID() int32    { return IDSetSeenRecipe }
func (*SetSeenRecipe) State() State { return StatePlay }

func (pk *SetSeenRecipe) Marshal(io IO) {
	io.String(&pk.RecipeID)
}

type RenameItem struct {
	ItemName string
}

func (*RenameItem) ID() int32    { return IDRenameItem }
func (*RenameItem) State() State { return StatePlay }

func (pk *RenameItem) Marshal(io IO) {
	io.String(&pk.ItemName)
}

const (
	ResourcePackLoaded int32 = iota
	ResourcePackDeclined
	ResourcePackFailedDownload
	ResourcePackAccepted
)

type ResourcePack struct {
	Result int32
}

func (*ResourcePack) ID() int32    { return IDResourcePack }
func (*ResourcePack) State() State { return StatePlay }

func (pk *ResourcePack) Marshal(io IO) {
	io.Varint32(&pk.Result)
}

const (
	AdvancementsOpenedTab int32 = iota
	AdvancementsClosedScreen
)

type SeenAdvancements struct {
	Action int32
	TabID  string
}

func (*SeenAdvancements) ID() int32    { return IDSeenAdvancements }
func (*SeenAdvancements) State() State { return StatePlay }

func (pk *SeenAdvancements) Marshal(io IO) {
	io.Varint32(&pk.Action)
	if pk.Action == AdvancementsOpenedTab {
		io.String(&pk.TabID)
	}
}

type SelectTrade struct {
	SelectedSlot int32
}

func (*SelectTrade) ID() int32    { return IDSelectTrade }
func (*SelectTrade) State() State { return StatePlay }

func (pk *SelectTrade) Marshal(io IO) {
	io.Varint32(&pk.SelectedSlot)
}

type SetBeaconEffect struct {
	HasPrimary      bool
	PrimaryEffect   int32
	HasSecondary    bool
	SecondaryEffect int32
}

func (*SetBeaconEffect) ID() int32    { return IDSetBeaconEffect }
func (*SetBeaconEffect) State() State { return StatePlay }

func (pk *SetBeaconEffect) Marshal(io IO) {
	Optional(io, &pk.HasPrimary, &pk.PrimaryEffect, io.Varint32)
	Optional(io, &pk.HasSecondary, &pk.SecondaryEffect, io.Varint32)
}

type SetHeldItem struct {
	Slot int16
}

func (*SetHeldItem) ID() int32    { return IDSetHeldItem }
func (*SetHeldItem) State() State { return StatePlay }

func (pk *SetHeldItem) Marshal(io IO) {
	io.Int16(&pk.Slot)
}

type ProgramCommandBlock struct {
	Location Position
	Command  string
	Mode     int32
	Flags    uint8
}

func (*ProgramCommandBlock) ID() int32    { return IDProgramCommandBlock }
func (*ProgramCommandBlock) State() State { return StatePlay }

func (pk *ProgramCommandBlock) Marshal(io IO) {
	io.Position(&pk.Location)
	io.String(&pk.Command)
	io.Varint32(&pk.Mode)
	io.Uint8(&pk.Flags)
}

type ProgramCommandBlockMinecart struct {
	EntityID    int32
	Command     string
	TrackOutput bool
}

func (*ProgramCommandBlockMinecart) ID() int32    { return IDProgramCommandBlockMinecart }
func (*ProgramCommandBlockMinecart) State() State { return StatePlay }

func (pk *ProgramCommandBlockMinecart) Marshal(io IO) {
	io.Varint32(&pk.EntityID)
	io.String(&pk.Command)
	io.Bool(&pk.TrackOutput)
}

type SetCreativeModeSlot struct {
	Slot        int16
	ClickedItem Slot
}

func (*SetCreativeModeSlot) ID() int32    { return IDSetCreativeModeSlot }
func (*SetCreativeModeSlot) State() State { return StatePlay }

func (pk *SetCreativeModeSlot) Marshal(io IO) {
	io.Int16(&pk.Slot)
	io.Slot(&pk.ClickedItem)
}

type ProgramJigsawBlock struct {
	Location   Position
	Name       string
	Target     string
	Pool       string
	FinalState string
	JointType  string
}

func (*ProgramJigsawBlock) ID() int32    { return IDProgramJigsawBlock }
func (*ProgramJigsawBlock) State() State { return StatePlay }

func (pk *ProgramJigsawBlock) Marshal(io IO) {
	io.Position(&pk.Location)
	io.String(&pk.Name)
	io.String(&pk.Target)
	io.String(&pk.Pool)
	io.String(&pk.FinalState)
	io.String(&pk.JointType)
}

type ProgramStructureBlock struct {
	Location                  Position
	Action                    int32
	Mode                      int32
	Name                      string
	OffsetX, OffsetY, OffsetZ int8
	SizeX, SizeY, SizeZ       int8
	Mirror                    int32
	Rotation                  int32
	Metadata                  string
	Integrity                 float32
	Seed                      int64
	Flags                     uint8
}

func (*ProgramStructureBlock) ID() int32    { return IDProgramStructureBlock }
func (*ProgramStructureBlock) State() State { return StatePlay }

func (pk *ProgramStructureBlock) Marshal(io IO) {
	io.Position(&pk.Location)
	io.Varint32(&pk.Action)
	io.Varint32(&pk.Mode)
	io.String(&pk.Name)
	io.Int8(&pk.OffsetX)
	io.Int8(&pk.OffsetY)
	io.Int8(&pk.OffsetZ)
	io.Int8(&pk.SizeX)
	io.Int8(&pk.SizeY)
	io.Int8(&pk.SizeZ)
	io.Varint32(&pk.Mirror)
	io.Varint32(&pk.Rotation)
	io.String(&pk.Metadata)
	io.Float32(&pk.Integrity)
	io.Varint64(&pk.Seed)
	io.Uint8(&pk.Flags)
}

type UpdateSign struct {
	Location Position
	Lines    [4]string
}

func (*UpdateSign) ID() int32    { return IDUpdateSign }
func (*UpdateSign) State() State { return StatePlay }

func (pk *UpdateSign) Marshal(io IO) {
	io.Position(&pk.Location)
	for i := range pk.Lines {
		io.String(&pk.Lines[i])
	}
}

type SwingArm struct {
	Hand Hand
}

func (*SwingArm) ID() int32    { return IDSwingArm }
func (*SwingArm) State() State { return StatePlay }

func (pk *SwingArm) Marshal(io IO) {
	io.Varint32((*int32)(&pk.Hand))
}

type TeleportToEntity struct {
	TargetPlayer uuid.UUID
}

func (*TeleportToEntity) ID() int32    { return IDTeleportToEntity }
func (*TeleportToEntity) State() State { return StatePlay }

func (pk *TeleportToEntity) Marshal(io IO) {
	io.UUID(&pk.TargetPlayer)
}

type UseItemOn struct {
	Hand        Hand
	Location    Position
	Face        int32
	CursorX     float32
	CursorY     float32
	CursorZ     float32
	InsideBlock bool
	Sequence    int32
}

func (*UseItemOn) ID() int32    { return IDUseItemOn }
func (*UseItemOn) State() State { return StatePlay }

func (pk *UseItemOn) Marshal(io IO) {
	io.Varint32((*int32)(&pk.Hand))
	io.Position(&pk.Location)
	io.Varint32(&pk.Face)
	io.Float32(&pk.CursorX)
	io.Float32(&pk.CursorY)
	io.Float32(&pk.CursorZ)
	io.Bool(&pk.InsideBlock)
	io.Varint32(&pk.Sequence)
}

type UseItem struct {
	Hand     Hand
	Sequence int32
}

func (*UseItem) ID() int32    { return IDUseItem }
func (*UseItem) State() State { return StatePlay }

func (pk *UseItem) Marshal(io IO) {
	io.Varint32((*int32)(&pk.Hand))
	io.Varint32(&pk.Sequence)
}
