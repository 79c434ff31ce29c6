package object

// Blob is an unknown-kind property. It keeps the exact bytes it was decoded
// from and writes them back unchanged. A blob that was never decoded or set
// has nil Data and is skippable.
type Blob struct {
	typeName string
	Data     []byte
}

// NewBlob creates an empty blob standing in for typeName.
func NewBlob(typeName string) *Blob {
	return &Blob{typeName: typeName}
}

// TypeName returns the type name the blob was created for.
func (b *Blob) TypeName() string { return b.typeName }

// Decode takes all of data. The bytes alias the decoded buffer.
func (b *Blob) Decode(data []byte, _ *Context) (int, error) {
	if data == nil {
		data = []byte{}
	}
	b.Data = data[:len(data):len(data)]
	return len(data), nil
}

// Encode appends the kept bytes to dst.
func (b *Blob) Encode(dst []byte, _ *Context) ([]byte, error) {
	return append(dst, b.Data...), nil
}

// IsSkippable reports whether the blob holds no decoded bytes. A decoded
// zero-length field is kept.
func (b *Blob) IsSkippable() bool { return b.Data == nil }

// IsUnknown always returns true.
func (b *Blob) IsUnknown() bool { return true }
