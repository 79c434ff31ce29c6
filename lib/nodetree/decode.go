package nodetree

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("nodetree")

// selfIdxSize is the size of the self index header of every named node
const selfIdxSize = 4

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// MaxDepth bounds the nesting of the decoded tree (0 = common.DefaultMaxDepth)
	MaxDepth int
}

type decoder struct {
	buf      []byte
	table    []Descriptor
	visited  []bool
	root     int32
	maxDepth int
	tree     *Tree
}

// Decode rebuilds the tree whose root is the descriptor at start.
// The root is exempt from the self index check, every other node must start
// with its own table index. Node data aliases buf.
func Decode(buf []byte, table []Descriptor, start int32) (*Tree, error) {
	return DecodeWithOptions(buf, table, start, nil)
}

// DecodeWithOptions is Decode with explicit options.
func DecodeWithOptions(buf []byte, table []Descriptor, start int32, opts *DecodeOptions) (*Tree, error) {
	d := &decoder{
		buf:      buf,
		table:    table,
		visited:  make([]bool, len(table)),
		root:     start,
		maxDepth: common.DefaultMaxDepth,
		tree:     &Tree{},
	}
	if opts != nil && opts.MaxDepth > 0 {
		d.maxDepth = opts.MaxDepth
	}

	root, err := d.readNode(start, 0)
	if err != nil {
		metrics.TreeDecodeFails.Inc()
		plog.Debugf("decoding tree from descriptor %d failed: %v", start, err)
		return nil, err
	}
	d.tree.root = root

	metrics.BytesDecoded.Add(int(table[start].Size))
	return d.tree, nil
}

func (d *decoder) readNode(idx int32, depth int) (NodeID, error) {
	if depth > d.maxDepth {
		return 0, common.Corruptionf("node %d: nesting deeper than %d", idx, d.maxDepth)
	}
	if idx < 0 || int(idx) >= len(d.table) {
		return 0, common.Corruptionf("node index %d out of range [0, %d)", idx, len(d.table))
	}
	if d.visited[idx] {
		return 0, common.Corruptionf("node %d is referenced twice (cyclic descriptor table)", idx)
	}
	d.visited[idx] = true

	desc := &d.table[idx]
	start := uint64(desc.Offset)
	end := start + uint64(desc.Size)

	if end > uint64(len(d.buf)) {
		return 0, common.Corruptionf("node %d (%s): end offset %d exceeds buffer size %d", idx, desc.Name, end, len(d.buf))
	}
	if desc.Size < selfIdxSize {
		return 0, common.Corruptionf("node %d (%s): size %d too small for the self index", idx, desc.Name, desc.Size)
	}
	if self := binary.LittleEndian.Uint32(d.buf[start:]); idx != d.root && self != uint32(idx) {
		return 0, common.Corruptionf("node %d (%s): self index mismatch (found %d)", idx, desc.Name, self)
	}

	id := d.tree.add(Node{Name: desc.Name, Index: idx})
	metrics.NodesDecoded.Inc()

	cur := start + selfIdxSize

	if desc.Child < 0 {
		if cur < end {
			d.tree.nodes[id].Data = d.buf[cur:end:end]
		}
		return id, nil
	}

	for i := desc.Child; i >= 0; {
		if int(i) >= len(d.table) {
			return 0, common.Corruptionf("node %d (%s): child index %d out of range", idx, desc.Name, i)
		}
		cd := &d.table[i]
		cstart := uint64(cd.Offset)
		cend := cstart + uint64(cd.Size)

		if cstart < cur {
			return 0, common.Corruptionf("node %d (%s): child %d overlaps the previous region", idx, desc.Name, i)
		}
		if cend > end {
			return 0, common.Corruptionf("node %d (%s): child %d ends at %d beyond parent end %d", idx, desc.Name, i, cend, end)
		}
		if cstart > cur {
			d.addBlob(id, cur, cstart)
		}

		cid, err := d.readNode(i, depth+1)
		if err != nil {
			return 0, fmt.Errorf("in node %d (%s): %w", idx, desc.Name, err)
		}
		d.tree.nodes[id].Children = append(d.tree.nodes[id].Children, cid)

		cur = cend
		i = cd.Next
	}

	if cur < end {
		d.addBlob(id, cur, end)
	}
	return id, nil
}

func (d *decoder) addBlob(parent NodeID, from, to uint64) {
	d.tree.AddBlob(parent, d.buf[from:to:to])
	metrics.BlobsDecoded.Inc()
}
