package protocol

import (
	"errors"
	"fmt"
	"io"
)

// Wire format: [varint length][varint packet id][payload]
// length counts the packet id bytes plus the payload bytes.

// MaxFrameLength is the largest length a 3-byte varint prefix can announce.
const MaxFrameLength = 1<<21 - 1

var (
	ErrFraming      = errors.New("framing error")
	ErrNeedMoreData = errors.New("need more data")
)

// Frame is a single decoded length-prefixed unit.
type Frame struct {
	ID      int32
	Payload []byte
}

// DecodeFrame decodes one frame from the start of buf. It returns the frame and
// the number of bytes consumed, ErrNeedMoreData when buf holds only part of a
// frame, or an ErrFraming error when the frame can never become valid.
func DecodeFrame(buf []byte, maxLength int) (Frame, int, error) {
	length, n, err := DecodeVarInt(buf)
	switch {
	case errors.Is(err, ErrShortBuffer):
		if len(buf) < maxPrefixLen {
			return Frame{}, 0, ErrNeedMoreData
		}
		return Frame{}, 0, fmt.Errorf("%w: length prefix longer than %d bytes", ErrFraming, maxPrefixLen)
	case err != nil:
		return Frame{}, 0, fmt.Errorf("%w: %w", ErrFraming, err)
	case n > maxPrefixLen:
		return Frame{}, 0, fmt.Errorf("%w: length prefix longer than %d bytes", ErrFraming, maxPrefixLen)
	}
	if err := checkLength(length, maxLength); err != nil {
		return Frame{}, 0, err
	}
	if len(buf)-n < int(length) {
		return Frame{}, 0, ErrNeedMoreData
	}

	body := buf[n : n+int(length)]
	frame, err := splitFrame(body)
	if err != nil {
		return Frame{}, 0, err
	}
	return frame, n + int(length), nil
}

// ReadFrame reads exactly one frame from r. The returned payload is owned by
// the caller.
func ReadFrame(r io.Reader, maxLength int) (Frame, error) {
	length, _, err := readVarInt(r, maxPrefixLen)
	if err != nil {
		return Frame{}, err
	}
	if err := checkLength(length, maxLength); err != nil {
		return Frame{}, err
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, fmt.Errorf("read frame body: %w", err)
	}
	return splitFrame(body)
}

func checkLength(length int32, maxLength int) error {
	if maxLength <= 0 || maxLength > MaxFrameLength {
		maxLength = MaxFrameLength
	}
	if length <= 0 {
		return fmt.Errorf("%w: invalid frame length %d", ErrFraming, length)
	}
	if int(length) > maxLength {
		return fmt.Errorf("%w: frame length %d exceeds %d", ErrFraming, length, maxLength)
	}
	return nil
}

// splitFrame separates the packet id from the payload. The id must fit inside
// the announced length.
func splitFrame(body []byte) (Frame, error) {
	id, n, err := DecodeVarInt(body)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: packet id: %w", ErrFraming, err)
	}
	return Frame{ID: id, Payload: body[n:]}, nil
}

// AppendFrame appends the framed encoding of id and payload to b.
func AppendFrame(b []byte, id int32, payload []byte) []byte {
	b = AppendVarInt(b, int32(VarIntSize(id)+len(payload)))
	b = AppendVarInt(b, id)
	return append(b, payload...)
}
