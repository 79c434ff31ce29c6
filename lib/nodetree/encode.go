package nodetree

import (
	"encoding/binary"
	"math"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/metrics"
)

type encoder struct {
	tree  *Tree
	table []Descriptor
	buf   []byte
}

// Encode flattens the tree into a descriptor table and a node data buffer.
// Named nodes are numbered in pre-order starting at 0 (the root), anonymous
// data nodes get no row and their bytes are written in place. The Index of
// every named node is updated to its new table index.
//
// Own data of a node that also has children is written before the children
// and decodes back as a leading blob child, not as Data.
func Encode(t *Tree) ([]Descriptor, []byte, error) {
	if t.Node(t.root).IsBlob() {
		return nil, nil, common.NewError(common.ErrCInvalidOperation, "root node can not be a data blob")
	}

	e := &encoder{
		tree: t,
		buf:  make([]byte, 0, t.SubtreeSize(t.root)),
	}
	if _, err := e.writeNode(t.root); err != nil {
		return nil, nil, err
	}

	plog.Debugf("encoded %d nodes in %d bytes", len(e.table), len(e.buf))
	return e.table, e.buf, nil
}

func (e *encoder) writeNode(id NodeID) (int32, error) {
	n := &e.tree.nodes[id]
	if n.blob {
		e.buf = append(e.buf, n.Data...)
		return NullIdx, nil
	}

	if len(e.table) >= math.MaxInt32 {
		return NullIdx, common.Encodef("too many nodes")
	}
	start := len(e.buf)
	if uint64(start) > math.MaxUint32 {
		return NullIdx, common.Encodef("node %s: offset %d does not fit in 32 bits", n.Name, start)
	}

	idx := int32(len(e.table))
	e.table = append(e.table, Descriptor{Name: n.Name, Next: NullIdx, Child: NullIdx})
	n.Index = idx

	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(idx))
	e.buf = append(e.buf, n.Data...)

	prev := NullIdx
	for _, c := range e.tree.nodes[id].Children {
		cidx, err := e.writeNode(c)
		if err != nil {
			return NullIdx, err
		}
		if cidx == NullIdx {
			continue
		}
		if prev == NullIdx {
			e.table[idx].Child = cidx
		} else {
			e.table[prev].Next = cidx
		}
		prev = cidx
	}

	size := len(e.buf) - start
	if uint64(size) > math.MaxUint32 {
		return NullIdx, common.Encodef("node %s: size %d does not fit in 32 bits", e.tree.nodes[id].Name, size)
	}
	e.table[idx].Offset = uint32(start)
	e.table[idx].Size = uint32(size)

	metrics.NodesEncoded.Inc()
	return idx, nil
}
