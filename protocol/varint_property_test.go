package protocol

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"
)

// TestVarIntRoundTrip_Property checks that every 32-bit value survives the
// buffer and the stream decoders with the same consumed length.
func TestVarIntRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int32().Draw(t, "v")

		enc := AppendVarInt(nil, v)
		if len(enc) != VarIntSize(v) {
			t.Fatalf("size mismatch: encoded %d bytes, VarIntSize %d", len(enc), VarIntSize(v))
		}
		if len(enc) > MaxVarIntLen {
			t.Fatalf("encoding of %d is %d bytes", v, len(enc))
		}

		got, n, err := DecodeVarInt(enc)
		if err != nil || got != v || n != len(enc) {
			t.Fatalf("DecodeVarInt(%x) = %d, %d, %v; want %d, %d", enc, got, n, err, v, len(enc))
		}

		got, n, err = ReadVarInt(bytes.NewReader(enc))
		if err != nil || got != v || n != len(enc) {
			t.Fatalf("ReadVarInt(%x) = %d, %d, %v; want %d, %d", enc, got, n, err, v, len(enc))
		}
	})
}

func TestVarLongRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Int64().Draw(t, "v")

		enc := AppendVarLong(nil, v)
		if len(enc) > MaxVarLongLen {
			t.Fatalf("encoding of %d is %d bytes", v, len(enc))
		}
		got, n, err := DecodeVarLong(enc)
		if err != nil || got != v || n != len(enc) {
			t.Fatalf("DecodeVarLong(%x) = %d, %d, %v; want %d, %d", enc, got, n, err, v, len(enc))
		}
	})
}

// TestVarIntTruncated_Property checks that any strict prefix of an encoding
// asks for more data instead of producing a value.
func TestVarIntTruncated_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		enc := AppendVarInt(nil, rapid.Int32().Draw(t, "v"))
		cut := rapid.IntRange(0, len(enc)-1).Draw(t, "cut")

		if _, _, err := DecodeVarInt(enc[:cut]); !errors.Is(err, ErrShortBuffer) {
			t.Fatalf("DecodeVarInt(%x) err = %v, want ErrShortBuffer", enc[:cut], err)
		}
	})
}

func TestPositionRoundTrip_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := Position{
			X: rapid.Int32Range(-1<<25, 1<<25-1).Draw(t, "x"),
			Y: rapid.Int32Range(-1<<11, 1<<11-1).Draw(t, "y"),
			Z: rapid.Int32Range(-1<<25, 1<<25-1).Draw(t, "z"),
		}
		if got := UnpackPosition(p.Pack()); got != p {
			t.Fatalf("UnpackPosition(Pack(%+v)) = %+v", p, got)
		}
	})
}
