// Package nodetree implements the node tree codec of the save container.
//
// A save stores its nodes as a flat descriptor table (name, next sibling,
// first child, offset, size) plus one shared data buffer. Every named node's
// region starts with a 4 byte little-endian copy of its own table index.
// Bytes inside a node region that are not covered by a child are kept as
// anonymous "datablob" children, so a decoded tree re-encodes to the same
// buffer.
//
// Key Components:
//
//   - Tree / Node: an arena of nodes addressed by NodeID. Children are stored
//     as id slices, which keeps the tree free of pointer cycles.
//
//   - Decode: rebuilds a Tree from a descriptor table starting at a given row.
//     Malformed tables (out of range indices, overlapping or escaping children,
//     self index mismatches, cycles, excessive nesting) fail with an error
//     matching common.ErrCorruption.
//
//   - Encode: the inverse of Decode. Named nodes are renumbered in pre-order.
//
//   - Reader / Writer: cursor helpers for typed node content that mixes raw
//     bytes and named child nodes.
package nodetree
