package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Item tags are kept as raw bytes. The skipper only walks the structure to find
// where the tag ends.

const (
	tagEnd byte = iota
	tagByte
	tagShort
	tagInt
	tagLong
	tagFloat
	tagDouble
	tagByteArray
	tagString
	tagList
	tagCompound
	tagIntArray
	tagLongArray
)

// MaxNBTDepth bounds compound and list nesting.
const MaxNBTDepth = 512

var ErrInvalidNBT = errors.New("invalid nbt")

type nbtScanner struct {
	b   []byte
	off int
}

// nbtLen returns the byte length of the named root tag at the start of b.
// A lone end tag is a valid empty value of length 1.
func nbtLen(b []byte) (int, error) {
	s := &nbtScanner{b: b}
	tag, err := s.byte()
	if err != nil {
		return 0, err
	}
	if tag == tagEnd {
		return 1, nil
	}
	if err := s.skipString(); err != nil {
		return 0, err
	}
	if err := s.skipPayload(tag, 0); err != nil {
		return 0, err
	}
	return s.off, nil
}

func (s *nbtScanner) skip(n int) error {
	if n < 0 || len(s.b)-s.off < n {
		return fmt.Errorf("%w: %w", ErrInvalidNBT, ErrShortBuffer)
	}
	s.off += n
	return nil
}

func (s *nbtScanner) byte() (byte, error) {
	if s.off >= len(s.b) {
		return 0, fmt.Errorf("%w: %w", ErrInvalidNBT, ErrShortBuffer)
	}
	c := s.b[s.off]
	s.off++
	return c, nil
}

func (s *nbtScanner) int32() (int32, error) {
	if len(s.b)-s.off < 4 {
		return 0, fmt.Errorf("%w: %w", ErrInvalidNBT, ErrShortBuffer)
	}
	v := int32(binary.BigEndian.Uint32(s.b[s.off:]))
	s.off += 4
	return v, nil
}

func (s *nbtScanner) skipString() error {
	if len(s.b)-s.off < 2 {
		return fmt.Errorf("%w: %w", ErrInvalidNBT, ErrShortBuffer)
	}
	n := int(binary.BigEndian.Uint16(s.b[s.off:]))
	s.off += 2
	return s.skip(n)
}

func (s *nbtScanner) skipArray(elemSize int) error {
	n, err := s.int32()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative array length %d", ErrInvalidNBT, n)
	}
	if int(n) > (len(s.b)-s.off)/elemSize {
		return fmt.Errorf("%w: %w", ErrInvalidNBT, ErrShortBuffer)
	}
	return s.skip(int(n) * elemSize)
}

func (s *nbtScanner) skipPayload(tag byte, depth int) error {
	if depth > MaxNBTDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrInvalidNBT, MaxNBTDepth)
	}
	switch tag {
	case tagByte:
		return s.skip(1)
	case tagShort:
		return s.skip(2)
	case tagInt, tagFloat:
		return s.skip(4)
	case tagLong, tagDouble:
		return s.skip(8)
	case tagByteArray:
		return s.skipArray(1)
	case tagIntArray:
		return s.skipArray(4)
	case tagLongArray:
		return s.skipArray(8)
	case tagString:
		return s.skipString()
	case tagList:
		elem, err := s.byte()
		if err != nil {
			return err
		}
		n, err := s.int32()
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: negative list length %d", ErrInvalidNBT, n)
		}
		if n > 0 && elem == tagEnd {
			return fmt.Errorf("%w: non-empty list of end tags", ErrInvalidNBT)
		}
		for i := int32(0); i < n; i++ {
			if err := s.skipPayload(elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	case tagCompound:
		for {
			child, err := s.byte()
			if err != nil {
				return err
			}
			if child == tagEnd {
				return nil
			}
			if err := s.skipString(); err != nil {
				return err
			}
			if err := s.skipPayload(child, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown tag type %d", ErrInvalidNBT, tag)
	}
}
