package protocol

// Position is a block location. On the wire it is a single int64 holding
// x in the top 26 bits, z in the next 26 and y in the low 12, each signed.
type Position struct {
	X, Y, Z int32
}

// Pack returns the wire encoding of p.
func (p Position) Pack() int64 {
	return (int64(p.X)&0x3FFFFFF)<<38 | (int64(p.Z)&0x3FFFFFF)<<12 | int64(p.Y)&0xFFF
}

// UnpackPosition decodes a packed position, sign-extending each component.
func UnpackPosition(v int64) Position {
	return Position{
		X: int32(v >> 38),
		Y: int32(v << 52 >> 52),
		Z: int32(v << 26 >> 38),
	}
}

// Slot is an inventory slot. NBT holds the raw item tag, nil when absent.
type Slot struct {
	Present bool
	ItemID  int32
	Count   int8
	NBT     []byte
}

// BitSet20 is a fixed 20 bit set sent as 3 bytes.
type BitSet20 [3]byte

// Set reports whether bit i is set.
func (b BitSet20) Set(i int) bool {
	if i < 0 || i >= 20 {
		return false
	}
	return b[i/8]&(1<<(i%8)) != 0
}

// SignatureLength is the size of a chat message or argument signature.
const SignatureLength = 256

type Signature [SignatureLength]byte

// ArgumentSignature signs one argument of a chat command.
type ArgumentSignature struct {
	Name      string
	Signature Signature
}

func (x *ArgumentSignature) Marshal(io IO) {
	io.String(&x.Name)
	io.FixedBytes(x.Signature[:])
}

// SlotWithIndex is a changed slot reported by ClickContainer.
type SlotWithIndex struct {
	Index int16
	Item  Slot
}

func (x *SlotWithIndex) Marshal(io IO) {
	io.Int16(&x.Index)
	io.Slot(&x.Item)
}

// Property is a signed profile property such as a skin texture.
type Property struct {
	Name      string
	Value     string
	Signed    bool
	Signature string
}

func (x *Property) Marshal(io IO) {
	io.String(&x.Name)
	io.String(&x.Value)
	Optional(io, &x.Signed, &x.Signature, io.String)
}

// Hand selects the main or off hand.
type Hand int32

const (
	HandMain Hand = iota
	HandOff
)
