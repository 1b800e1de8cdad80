package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte("hello")
	enc := AppendFrame(nil, 0x2a, payload)
	assert.Equal(t, append([]byte{0x06, 0x2a}, payload...), enc)

	frame, n, err := DecodeFrame(enc, MaxFrameLength)
	require.NoError(t, err)
	assert.Equal(t, len(enc), n)
	assert.Equal(t, int32(0x2a), frame.ID)
	assert.Equal(t, payload, frame.Payload)
}

func TestDecodeFrameNeedsMoreData(t *testing.T) {
	enc := AppendFrame(nil, 0x01, bytes.Repeat([]byte{0xaa}, 300))
	for _, cut := range []int{0, 1, 2, 10, len(enc) - 1} {
		_, _, err := DecodeFrame(enc[:cut], MaxFrameLength)
		assert.ErrorIs(t, err, ErrNeedMoreData, "cut at %d", cut)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"zero length", []byte{0x00}},
		{"negative length", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{"prefix longer than three bytes", []byte{0x80, 0x80, 0x80, 0x01}},
		{"id overruns length", []byte{0x02, 0x80, 0x80, 0x01}},
		{"length above max", []byte{0x81, 0x01, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeFrame(tt.buf, 128)
			assert.ErrorIs(t, err, ErrFraming)
		})
	}
}

func TestReadFrameStream(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(AppendFrame(nil, 0x00, []byte{0x01, 0x02}))
	stream.Write(AppendFrame(nil, 0x01, nil))

	first, err := ReadFrame(&stream, MaxFrameLength)
	require.NoError(t, err)
	assert.Equal(t, Frame{ID: 0x00, Payload: []byte{0x01, 0x02}}, first)

	second, err := ReadFrame(&stream, MaxFrameLength)
	require.NoError(t, err)
	assert.Equal(t, int32(0x01), second.ID)
	assert.Empty(t, second.Payload)
	assert.Zero(t, stream.Len())
}

func TestReadFrameOversized(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x01}), MaxFrameLength)
	assert.ErrorIs(t, err, ErrFraming)

	_, err = ReadFrame(bytes.NewReader(AppendFrame(nil, 0, make([]byte, 64))), 16)
	assert.ErrorIs(t, err, ErrFraming)
}
