package packing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

var (
	// ErrShortRead is returned when a read would go past the end of the data.
	ErrShortRead = errors.New("packing: read past end of data")
	// ErrPackedIntOverflow is returned when a packed integer does not terminate in time.
	ErrPackedIntOverflow = errors.New("packing: packed integer too long")
)

// maxPackedIntLen is the longest packed integer accepted (6 + 9*7 value bits)
const maxPackedIntLen = 10

// maxStringLen bounds PLString lengths so corrupted lengths fail early
const maxStringLen = 1 << 20

// Reader reads little-endian values from a byte slice.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// --------------------------------------------------------------------------
// Cursor
// --------------------------------------------------------------------------

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the underlying data.
func (r *Reader) Len() int { return len(r.data) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// AtEnd reports whether all bytes were consumed.
func (r *Reader) AtEnd() bool { return r.pos >= len(r.data) }

// Rest returns the unread bytes without consuming them.
func (r *Reader) Rest() []byte { return r.data[r.pos:] }

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || n > r.Remaining() {
		return ErrShortRead
	}
	r.pos += n
	return nil
}

// Bytes returns the next n bytes. The result aliases the underlying data.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrShortRead
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// --------------------------------------------------------------------------
// Fixed width values
// --------------------------------------------------------------------------

func (r *Reader) U8() (uint8, error) {
	if r.Remaining() < 1 {
		return 0, ErrShortRead
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	v, err := r.U32()
	return int32(v), err
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.Bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) F32() (float32, error) {
	v, err := r.U32()
	return math.Float32frombits(v), err
}

// --------------------------------------------------------------------------
// Variable length values
// --------------------------------------------------------------------------

// PackedInt reads a packed signed integer.
func (r *Reader) PackedInt() (int64, error) {
	b, err := r.U8()
	if err != nil {
		return 0, err
	}

	negative := b&0x80 != 0
	value := uint64(b & 0x3F)
	more := b&0x40 != 0
	shift := uint(6)

	for n := 1; more; n++ {
		if n >= maxPackedIntLen {
			return 0, ErrPackedIntOverflow
		}
		if b, err = r.U8(); err != nil {
			return 0, err
		}
		value |= uint64(b&0x7F) << shift
		shift += 7
		more = b&0x80 != 0
	}

	if negative {
		return -int64(value), nil
	}
	return int64(value), nil
}

// PLString reads a packed-length string.
func (r *Reader) PLString() (string, error) {
	n, err := r.PackedInt()
	if err != nil {
		return "", err
	}

	switch {
	case n == 0:
		return "", nil
	case n < 0:
		if -n > maxStringLen {
			return "", fmt.Errorf("packing: string length %d out of range", -n)
		}
		b, err := r.Bytes(int(-n))
		if err != nil {
			return "", err
		}
		runes := make([]rune, len(b))
		for i, c := range b {
			runes[i] = rune(c)
		}
		return string(runes), nil
	default:
		if n > maxStringLen {
			return "", fmt.Errorf("packing: string length %d out of range", n)
		}
		b, err := r.Bytes(int(n) * 2)
		if err != nil {
			return "", err
		}
		units := make([]uint16, n)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
		return string(utf16.Decode(units)), nil
	}
}
