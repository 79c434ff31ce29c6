// Package csav reads and writes the save container:
//
//	"CSAV" [u32 format version][u32 game version][PLString label]
//	[u32 row count][rows: PLString name, i32 next, i32 child, u32 offset, u32 size]
//	"NODE" [u32 data size][node data]
//
// The container is stored uncompressed. Row 0 of the descriptor table is the
// root of the node tree, see package nodetree for the tree encoding.
package csav
