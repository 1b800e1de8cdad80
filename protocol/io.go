package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// MaxStringLength bounds the byte length of any string on the wire.
const MaxStringLength = 32767 * 3

var (
	ErrStringTooLong = errors.New("string too long")
	ErrInvalidValue  = errors.New("invalid value")
)

// IO is implemented by Reader and Writer. A packet describes its layout once in
// Marshal and the same code path is used to decode and encode it.
type IO interface {
	Bool(x *bool)
	Int8(x *int8)
	Uint8(x *uint8)
	Int16(x *int16)
	Uint16(x *uint16)
	Int32(x *int32)
	Int64(x *int64)
	Float32(x *float32)
	Float64(x *float64)
	Varint32(x *int32)
	Varint64(x *int64)
	String(x *string)
	ByteSlice(x *[]byte)
	FixedBytes(x []byte)
	RemainingBytes(x *[]byte)
	UUID(x *uuid.UUID)
	Position(x *Position)
	Slot(x *Slot)
	NBT(x *[]byte)

	// Length handles the varint count in front of an array. The Reader rejects
	// counts that cannot fit in the remaining bytes.
	Length(x *int32)
	Reading() bool
	InvalidValue(value any, field string, reason string)
}

// Slice reads or writes a varint prefixed array.
func Slice[T any](io IO, x *[]T, elem func(*T)) {
	n := int32(len(*x))
	io.Length(&n)
	if io.Reading() {
		*x = make([]T, n)
	}
	for i := range *x {
		elem(&(*x)[i])
	}
}

// Optional reads or writes a presence flag followed by the value when present.
func Optional[T any](io IO, present *bool, x *T, elem func(*T)) {
	io.Bool(present)
	if *present {
		elem(x)
	}
}

// Reader decodes primitives from a byte slice, advancing a cursor. The first
// failure is kept and every later call becomes a no-op.
type Reader struct {
	buf []byte
	off int
	err error
}

var _ IO = (*Reader)(nil)

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first error encountered.
func (r *Reader) Err() error { return r.err }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) Reading() bool { return true }

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) InvalidValue(value any, field string, reason string) {
	r.fail(fmt.Errorf("%w: %s = %v: %s", ErrInvalidValue, field, value, reason))
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.fail(fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n, r.Remaining()))
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Bool(x *bool) {
	if b := r.next(1); b != nil {
		*x = b[0] != 0
	}
}

func (r *Reader) Int8(x *int8) {
	if b := r.next(1); b != nil {
		*x = int8(b[0])
	}
}

func (r *Reader) Uint8(x *uint8) {
	if b := r.next(1); b != nil {
		*x = b[0]
	}
}

func (r *Reader) Int16(x *int16) {
	if b := r.next(2); b != nil {
		*x = int16(binary.BigEndian.Uint16(b))
	}
}

func (r *Reader) Uint16(x *uint16) {
	if b := r.next(2); b != nil {
		*x = binary.BigEndian.Uint16(b)
	}
}

func (r *Reader) Int32(x *int32) {
	if b := r.next(4); b != nil {
		*x = int32(binary.BigEndian.Uint32(b))
	}
}

func (r *Reader) Int64(x *int64) {
	if b := r.next(8); b != nil {
		*x = int64(binary.BigEndian.Uint64(b))
	}
}

func (r *Reader) Float32(x *float32) {
	if b := r.next(4); b != nil {
		*x = math.Float32frombits(binary.BigEndian.Uint32(b))
	}
}

func (r *Reader) Float64(x *float64) {
	if b := r.next(8); b != nil {
		*x = math.Float64frombits(binary.BigEndian.Uint64(b))
	}
}

func (r *Reader) Varint32(x *int32) {
	if r.err != nil {
		return
	}
	v, n, err := DecodeVarInt(r.buf[r.off:])
	if err != nil {
		r.fail(err)
		return
	}
	r.off += n
	*x = v
}

func (r *Reader) Varint64(x *int64) {
	if r.err != nil {
		return
	}
	v, n, err := DecodeVarLong(r.buf[r.off:])
	if err != nil {
		r.fail(err)
		return
	}
	r.off += n
	*x = v
}

func (r *Reader) Length(x *int32) {
	var n int32
	r.Varint32(&n)
	if r.err != nil {
		*x = 0
		return
	}
	if n < 0 || int(n) > r.Remaining() {
		r.InvalidValue(n, "length", "does not fit in remaining bytes")
		*x = 0
		return
	}
	*x = n
}

func (r *Reader) String(x *string) {
	var n int32
	r.Varint32(&n)
	if r.err != nil {
		return
	}
	if n < 0 || n > MaxStringLength {
		r.fail(fmt.Errorf("%w: %d bytes", ErrStringTooLong, n))
		return
	}
	if b := r.next(int(n)); b != nil {
		*x = string(b)
	}
}

func (r *Reader) ByteSlice(x *[]byte) {
	var n int32
	r.Length(&n)
	if b := r.next(int(n)); b != nil {
		*x = bytes.Clone(b)
	}
}

func (r *Reader) FixedBytes(x []byte) {
	if b := r.next(len(x)); b != nil {
		copy(x, b)
	}
}

func (r *Reader) RemainingBytes(x *[]byte) {
	if b := r.next(r.Remaining()); b != nil {
		*x = bytes.Clone(b)
	}
}

func (r *Reader) UUID(x *uuid.UUID) {
	r.FixedBytes(x[:])
}

func (r *Reader) Position(x *Position) {
	var v int64
	r.Int64(&v)
	*x = UnpackPosition(v)
}

func (r *Reader) Slot(x *Slot) {
	r.Bool(&x.Present)
	if !x.Present {
		return
	}
	r.Varint32(&x.ItemID)
	r.Int8(&x.Count)
	r.NBT(&x.NBT)
}

func (r *Reader) NBT(x *[]byte) {
	if r.err != nil {
		return
	}
	n, err := nbtLen(r.buf[r.off:])
	if err != nil {
		r.fail(err)
		return
	}
	if b := r.next(n); b != nil && !(n == 1 && b[0] == tagEnd) {
		*x = bytes.Clone(b)
	}
}

// Writer encodes primitives into a bytes.Buffer.
type Writer struct {
	buf     *bytes.Buffer
	scratch [MaxVarLongLen]byte
	err     error
}

var _ IO = (*Writer)(nil)

func NewWriter(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf}
}

// Err returns the first value rejected while encoding.
func (w *Writer) Err() error { return w.err }

func (w *Writer) Reading() bool { return false }

func (w *Writer) InvalidValue(value any, field string, reason string) {
	if w.err == nil {
		w.err = fmt.Errorf("%w: %s = %v: %s", ErrInvalidValue, field, value, reason)
	}
}

func (w *Writer) Bool(x *bool) {
	if *x {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

func (w *Writer) Int8(x *int8)   { w.buf.WriteByte(byte(*x)) }
func (w *Writer) Uint8(x *uint8) { w.buf.WriteByte(*x) }

func (w *Writer) Int16(x *int16) {
	w.buf.Write(binary.BigEndian.AppendUint16(w.scratch[:0], uint16(*x)))
}

func (w *Writer) Uint16(x *uint16) {
	w.buf.Write(binary.BigEndian.AppendUint16(w.scratch[:0], *x))
}

func (w *Writer) Int32(x *int32) {
	w.buf.Write(binary.BigEndian.AppendUint32(w.scratch[:0], uint32(*x)))
}

func (w *Writer) Int64(x *int64) {
	w.buf.Write(binary.BigEndian.AppendUint64(w.scratch[:0], uint64(*x)))
}

func (w *Writer) Float32(x *float32) {
	w.buf.Write(binary.BigEndian.AppendUint32(w.scratch[:0], math.Float32bits(*x)))
}

func (w *Writer) Float64(x *float64) {
	w.buf.Write(binary.BigEndian.AppendUint64(w.scratch[:0], math.Float64bits(*x)))
}

func (w *Writer) Varint32(x *int32) {
	w.buf.Write(AppendVarInt(w.scratch[:0], *x))
}

func (w *Writer) Varint64(x *int64) {
	w.buf.Write(AppendVarLong(w.scratch[:0], *x))
}

func (w *Writer) Length(x *int32) { w.Varint32(x) }

func (w *Writer) String(x *string) {
	if len(*x) > MaxStringLength {
		w.InvalidValue(len(*x), "string length", ErrStringTooLong.Error())
		return
	}
	n := int32(len(*x))
	w.Varint32(&n)
	w.buf.WriteString(*x)
}

func (w *Writer) ByteSlice(x *[]byte) {
	n := int32(len(*x))
	w.Varint32(&n)
	w.buf.Write(*x)
}

func (w *Writer) FixedBytes(x []byte) { w.buf.Write(x) }

func (w *Writer) RemainingBytes(x *[]byte) { w.buf.Write(*x) }

func (w *Writer) UUID(x *uuid.UUID) { w.buf.Write(x[:]) }

func (w *Writer) Position(x *Position) {
	v := x.Pack()
	w.Int64(&v)
}

func (w *Writer) Slot(x *Slot) {
	w.Bool(&x.Present)
	if !x.Present {
		return
	}
	w.Varint32(&x.ItemID)
	w.Int8(&x.Count)
	w.NBT(&x.NBT)
}

func (w *Writer) NBT(x *[]byte) {
	if len(*x) == 0 {
		w.buf.WriteByte(tagEnd)
		return
	}
	w.buf.Write(*x)
}
