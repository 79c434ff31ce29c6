package nodetree

import (
	"fmt"

	"github.com/ValentinKolb/csav/lib/packing"
)

// Descriptor is one row of the node descriptor table. Offsets are relative to
// the shared node data buffer.
type Descriptor struct {
	Name   string
	Next   int32 // next sibling, NullIdx if none
	Child  int32 // first child, NullIdx if none
	Offset uint32
	Size   uint32
}

// ReadTable reads n descriptor rows:
// [PLString name][i32 next][i32 child][u32 offset][u32 size]
func ReadTable(r *packing.Reader, n int) ([]Descriptor, error) {
	if n < 0 {
		return nil, fmt.Errorf("nodetree: negative descriptor count %d", n)
	}
	// every row takes at least 17 bytes, don't trust n beyond that
	if n > r.Remaining()/17 {
		return nil, fmt.Errorf("nodetree: %d descriptors do not fit in %d bytes", n, r.Remaining())
	}

	table := make([]Descriptor, n)
	for i := range table {
		d := &table[i]
		var err error
		if d.Name, err = r.PLString(); err != nil {
			return nil, fmt.Errorf("nodetree: descriptor %d name: %w", i, err)
		}
		if d.Next, err = r.I32(); err != nil {
			return nil, fmt.Errorf("nodetree: descriptor %d: %w", i, err)
		}
		if d.Child, err = r.I32(); err != nil {
			return nil, fmt.Errorf("nodetree: descriptor %d: %w", i, err)
		}
		if d.Offset, err = r.U32(); err != nil {
			return nil, fmt.Errorf("nodetree: descriptor %d: %w", i, err)
		}
		if d.Size, err = r.U32(); err != nil {
			return nil, fmt.Errorf("nodetree: descriptor %d: %w", i, err)
		}
	}
	return table, nil
}

// AppendTable writes the descriptor rows to w.
func AppendTable(w *packing.Writer, table []Descriptor) {
	for _, d := range table {
		w.PutPLString(d.Name)
		w.PutI32(d.Next)
		w.PutI32(d.Child)
		w.PutU32(d.Offset)
		w.PutU32(d.Size)
	}
}
