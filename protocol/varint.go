package protocol

import (
	"errors"
	"fmt"
	"io"
)

// Variable-length integers carry 7 data bits per byte, least significant
// group first. The high bit of every byte except the last is set.
const (
	MaxVarIntLen  = 5
	MaxVarLongLen = 10

	segmentBits  = 0x7F
	continueBit  = 0x80
	maxPrefixLen = 3 // frame length prefixes never exceed 3 bytes
)

var (
	ErrVarIntTooBig  = errors.New("varint is too big")
	ErrVarLongTooBig = errors.New("varlong is too big")
	ErrShortBuffer   = errors.New("buffer exhausted")
)

// VarIntSize returns the number of bytes AppendVarInt writes for v.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >= continueBit {
		u >>= 7
		n++
	}
	return n
}

// AppendVarInt appends the varint encoding of v to b.
func AppendVarInt(b []byte, v int32) []byte {
	u := uint32(v)
	for u >= continueBit {
		b = append(b, byte(u)|continueBit)
		u >>= 7
	}
	return append(b, byte(u))
}

// AppendVarLong appends the varlong encoding of v to b.
func AppendVarLong(b []byte, v int64) []byte {
	u := uint64(v)
	for u >= continueBit {
		b = append(b, byte(u)|continueBit)
		u >>= 7
	}
	return append(b, byte(u))
}

// DecodeVarInt decodes a varint from the start of b and returns the value
// together with the number of bytes consumed.
func DecodeVarInt(b []byte) (int32, int, error) {
	var v uint32
	for i := 0; i < MaxVarIntLen; i++ {
		if i >= len(b) {
			return 0, 0, ErrShortBuffer
		}
		v |= uint32(b[i]&segmentBits) << (7 * i)
		if b[i]&continueBit == 0 {
			return int32(v), i + 1, nil
		}
	}
	return 0, 0, ErrVarIntTooBig
}

// DecodeVarLong is the 64-bit counterpart of DecodeVarInt.
func DecodeVarLong(b []byte) (int64, int, error) {
	var v uint64
	for i := 0; i < MaxVarLongLen; i++ {
		if i >= len(b) {
			return 0, 0, ErrShortBuffer
		}
		v |= uint64(b[i]&segmentBits) << (7 * i)
		if b[i]&continueBit == 0 {
			return int64(v), i + 1, nil
		}
	}
	return 0, 0, ErrVarLongTooBig
}

// ReadVarInt reads a varint from r one byte at a time, never consuming more
// than the encoded value.
func ReadVarInt(r io.Reader) (int32, int, error) {
	return readVarInt(r, MaxVarIntLen)
}

func readVarInt(r io.Reader, maxLen int) (int32, int, error) {
	var (
		v   uint32
		one [1]byte
	)
	for i := 0; i < maxLen; i++ {
		if _, err := io.ReadFull(r, one[:]); err != nil {
			if i > 0 && errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return 0, i, err
		}
		v |= uint32(one[0]&segmentBits) << (7 * i)
		if one[0]&continueBit == 0 {
			return int32(v), i + 1, nil
		}
	}
	if maxLen < MaxVarIntLen {
		return 0, maxLen, fmt.Errorf("%w: length prefix longer than %d bytes", ErrFraming, maxLen)
	}
	return 0, maxLen, ErrVarIntTooBig
}
