package object

import (
	"encoding/binary"
	"fmt"
)

type scalarValue interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Scalar is a fixed width little-endian property. A scalar equal to its zero
// value is skippable.
type Scalar[T scalarValue] struct {
	typeName string
	Value    T
}

// NewScalar creates a zero scalar of the given type name.
func NewScalar[T scalarValue](typeName string) *Scalar[T] {
	return &Scalar[T]{typeName: typeName}
}

// TypeName returns the registered type name.
func (s *Scalar[T]) TypeName() string { return s.typeName }

// Decode reads a little-endian value from the start of data.
func (s *Scalar[T]) Decode(data []byte, _ *Context) (int, error) {
	n, err := binary.Decode(data, binary.LittleEndian, &s.Value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", s.typeName, err)
	}
	return n, nil
}

// Encode appends the little-endian value to dst.
func (s *Scalar[T]) Encode(dst []byte, _ *Context) ([]byte, error) {
	return binary.Append(dst, binary.LittleEndian, s.Value)
}

// IsSkippable reports whether the value is zero.
func (s *Scalar[T]) IsSkippable() bool {
	var zero T
	return s.Value == zero
}

// IsUnknown always returns false.
func (s *Scalar[T]) IsUnknown() bool { return false }

func (s *Scalar[T]) String() string { return fmt.Sprint(s.Value) }

func scalarFactory[T scalarValue](typeName string) PropertyFactory {
	return func() Property { return NewScalar[T](typeName) }
}

// RegisterScalars registers the fixed width types of the save format.
func RegisterScalars(r *PropertyRegistry) {
	r.Register("Bool", scalarFactory[bool]("Bool"))
	r.Register("Int8", scalarFactory[int8]("Int8"))
	r.Register("Uint8", scalarFactory[uint8]("Uint8"))
	r.Register("Int16", scalarFactory[int16]("Int16"))
	r.Register("Uint16", scalarFactory[uint16]("Uint16"))
	r.Register("Int32", scalarFactory[int32]("Int32"))
	r.Register("Uint32", scalarFactory[uint32]("Uint32"))
	r.Register("Int64", scalarFactory[int64]("Int64"))
	r.Register("Uint64", scalarFactory[uint64]("Uint64"))
	r.Register("Float", scalarFactory[float32]("Float"))
	r.Register("Double", scalarFactory[float64]("Double"))
	// name hashes
	r.Register("CName", scalarFactory[uint64]("CName"))
	r.Register("TweakDBID", scalarFactory[uint64]("TweakDBID"))
}
