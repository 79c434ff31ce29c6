package object

import (
	"encoding/binary"

	"github.com/ValentinKolb/csav/lib/packing"
)

// FieldDescSize is the on-disk size of one field descriptor.
const FieldDescSize = 8

// FieldDesc is one inline field descriptor of an object payload:
// [u16 name index][u16 type name index][u32 offset]. The offset is relative to
// the start of the object payload.
type FieldDesc struct {
	NameIdx uint16
	TypeIdx uint16
	Offset  uint32
}

// ReadFieldDescs reads n field descriptors.
func ReadFieldDescs(r *packing.Reader, n int) ([]FieldDesc, error) {
	raw, err := r.Bytes(n * FieldDescSize)
	if err != nil {
		return nil, err
	}
	descs := make([]FieldDesc, n)
	for i := range descs {
		b := raw[i*FieldDescSize:]
		descs[i] = FieldDesc{
			NameIdx: binary.LittleEndian.Uint16(b[0:]),
			TypeIdx: binary.LittleEndian.Uint16(b[2:]),
			Offset:  binary.LittleEndian.Uint32(b[4:]),
		}
	}
	return descs, nil
}

// AppendFieldDescs appends the descriptors to dst.
func AppendFieldDescs(dst []byte, descs []FieldDesc) []byte {
	for _, d := range descs {
		dst = binary.LittleEndian.AppendUint16(dst, d.NameIdx)
		dst = binary.LittleEndian.AppendUint16(dst, d.TypeIdx)
		dst = binary.LittleEndian.AppendUint32(dst, d.Offset)
	}
	return dst
}

// putFieldDescs overwrites the placeholder block at the start of dst.
func putFieldDescs(dst []byte, descs []FieldDesc) {
	for i, d := range descs {
		b := dst[i*FieldDescSize:]
		binary.LittleEndian.PutUint16(b[0:], d.NameIdx)
		binary.LittleEndian.PutUint16(b[2:], d.TypeIdx)
		binary.LittleEndian.PutUint32(b[4:], d.Offset)
	}
}
