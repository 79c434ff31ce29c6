// Package object implements the reflective field serializer: the named, typed
// fields of a runtime object are read from and written to a packed record
// whose layout is stored inline and reconciled against the class blueprint.
//
// Record layout (little-endian):
//
//	[u16 field count][count x (u16 name index, u16 type index, u32 offset)][payloads]
//
// Name and type indices resolve through the name pool of the Context, offsets
// are relative to the start of the record.
//
// Key Components:
//
//   - Property: the contract every field value implements. Concrete types are
//     created through a PropertyRegistry; Scalar covers the fixed width types and
//     Blob stands in for everything the registry does not know.
//
//   - Blueprint / BlueprintRegistry: the authoritative field list of a class. An
//     object always carries exactly the blueprint's fields; a decoded field the
//     blueprint does not declare, or declares with another type, fails the object
//     with common.ErrSchemaMismatch.
//
//   - Object: Decode / Encode of one record. A field whose bytes do not decode
//     under its declared type is kept as a Blob with the original type name, so
//     re-encoding is lossless. Out of order records are accepted and logged.
//
//   - Context: name pool, registries, logger and event listener of one pass.
//
// Thread Safety:
//
//	Objects and Contexts are not safe for concurrent use. The registries are,
//	so independent objects may be decoded in parallel with one Context each.
package object
