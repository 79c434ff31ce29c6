// Package namepool implements the name/string pool used to keep records compact:
// field descriptors store uint16 indices instead of names.
//
// A Pool belongs to exactly one load or save pass. Decoding resolves indices with
// FromIdx (an out of range index is a corruption signal for the caller), encoding
// interns names with ToIdx.
package namepool
