package protocol

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compoundNBT is {"":{a:5}} in network form.
var compoundNBT = []byte{
	tagCompound, 0x00, 0x00,
	tagInt, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x05,
	tagEnd,
}

func TestReaderStringLimits(t *testing.T) {
	var s string

	r := NewReader(AppendVarInt(nil, MaxStringLength+1))
	r.String(&s)
	assert.ErrorIs(t, r.Err(), ErrStringTooLong)

	r = NewReader(append(AppendVarInt(nil, 10), "short"...))
	r.String(&s)
	assert.ErrorIs(t, r.Err(), ErrShortBuffer)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	long := strings.Repeat("x", MaxStringLength+1)
	w.String(&long)
	assert.ErrorIs(t, w.Err(), ErrInvalidValue)
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{0x01})
	var a int32
	var b bool
	r.Int32(&a)
	r.Bool(&b)
	require.ErrorIs(t, r.Err(), ErrShortBuffer)
	assert.False(t, b, "reads after a failure must not consume input")
	assert.Equal(t, 1, r.Remaining())
}

func TestReaderLengthBeyondRemaining(t *testing.T) {
	// A count of one million with three bytes left must fail before allocating.
	buf := append(AppendVarInt(nil, 1_000_000), 0x01, 0x02, 0x03)
	var entries []string
	r := NewReader(buf)
	Slice(r, &entries, r.String)
	assert.ErrorIs(t, r.Err(), ErrInvalidValue)
	assert.Empty(t, entries)
}

func TestSlotNBT(t *testing.T) {
	in := Slot{Present: true, ItemID: 276, Count: 1, NBT: compoundNBT}

	var buf bytes.Buffer
	NewWriter(&buf).Slot(&in)

	var out Slot
	r := NewReader(buf.Bytes())
	r.Slot(&out)
	require.NoError(t, r.Err())
	assert.Equal(t, in, out)
	assert.Zero(t, r.Remaining())

	empty := Slot{Present: true, ItemID: 1, Count: 64}
	buf.Reset()
	NewWriter(&buf).Slot(&empty)
	assert.Equal(t, byte(tagEnd), buf.Bytes()[buf.Len()-1])

	out = Slot{}
	r = NewReader(buf.Bytes())
	r.Slot(&out)
	require.NoError(t, r.Err())
	assert.Nil(t, out.NBT)
}

func TestNBTLen(t *testing.T) {
	n, err := nbtLen(append(compoundNBT, 0xff, 0xff))
	require.NoError(t, err)
	assert.Equal(t, len(compoundNBT), n)

	_, err = nbtLen(compoundNBT[:len(compoundNBT)-1])
	assert.ErrorIs(t, err, ErrInvalidNBT)

	_, err = nbtLen([]byte{0x0d, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrInvalidNBT)
}

func TestNBTDepthLimit(t *testing.T) {
	nested := func(depth int) []byte {
		b := []byte{tagList, 0x00, 0x00}
		for i := 0; i < depth; i++ {
			b = append(b, tagList, 0x00, 0x00, 0x00, 0x01)
		}
		return append(b, tagEnd, 0x00, 0x00, 0x00, 0x00)
	}

	_, err := nbtLen(nested(10))
	assert.NoError(t, err)

	_, err = nbtLen(nested(MaxNBTDepth + 1))
	assert.ErrorIs(t, err, ErrInvalidNBT)
}
