package packing

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Writer appends little-endian values to a growing byte slice.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer that appends to dst.
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// Bytes returns the written data.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far (including the initial dst).
func (w *Writer) Len() int { return len(w.buf) }

// Write implements io.Writer, it never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *Writer) PutU8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) PutU16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

func (w *Writer) PutU32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

func (w *Writer) PutI32(v int32) { w.PutU32(uint32(v)) }

func (w *Writer) PutU64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *Writer) PutF32(v float32) { w.PutU32(math.Float32bits(v)) }

// PutPackedInt appends v as a packed signed integer.
func (w *Writer) PutPackedInt(v int64) {
	w.buf = AppendPackedInt(w.buf, v)
}

// PutPLString appends s as a packed-length string.
func (w *Writer) PutPLString(s string) {
	w.buf = AppendPLString(w.buf, s)
}

// AppendPackedInt appends v as a packed signed integer to dst.
func AppendPackedInt(dst []byte, v int64) []byte {
	value := uint64(v)
	var first byte
	if v < 0 {
		value = uint64(-v)
		first = 0x80
	}

	first |= byte(value & 0x3F)
	value >>= 6
	if value != 0 {
		first |= 0x40
	}
	dst = append(dst, first)

	for value != 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// AppendPLString appends s as a packed-length string to dst.
// ASCII strings use the single byte form, everything else is written as UTF-16.
func AppendPLString(dst []byte, s string) []byte {
	if isASCII(s) {
		dst = AppendPackedInt(dst, -int64(len(s)))
		return append(dst, s...)
	}

	units := utf16.Encode([]rune(s))
	dst = AppendPackedInt(dst, int64(len(units)))
	for _, u := range units {
		dst = binary.LittleEndian.AppendUint16(dst, u)
	}
	return dst
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
