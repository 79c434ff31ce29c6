// Package packing provides the little-endian primitives shared by the save
// container, the node tree codec and the reflective field serializer.
//
// The package focuses on:
//   - Zero-copy reading of fixed width integers and byte ranges from a []byte
//   - Append-style writing, so callers can build payloads without intermediate buffers
//   - The two variable length encodings used throughout the save format
//
// Key Components:
//
//   - Reader: a cursor over a byte slice. Every read is bounds checked and fails
//     with ErrShortRead instead of panicking, so corrupted input never crashes the
//     decoder. Bytes returned by Reader.Bytes alias the underlying slice.
//
//   - Writer: an append-only buffer with Put* methods mirroring the Reader.
//
//   - Packed integers: a signed varint whose first byte carries the sign (bit 7),
//     a continuation flag (bit 6) and six value bits; every following byte carries a
//     continuation flag (bit 7) and seven value bits.
//
//   - PLString: a packed integer length followed by the characters. A negative length
//     announces |length| single byte characters, a positive length announces UTF-16LE
//     code units.
//
// Thread Safety:
//
//	Reader and Writer are not safe for concurrent use. They are cheap to create,
//	one per decode/encode call is the expected usage.
package packing
