package namepool

import (
	"fmt"
	"math"

	"github.com/ValentinKolb/csav/lib/packing"
)

// MaxNames is the number of names addressable by a uint16 index
const MaxNames = math.MaxUint16 + 1

// Pool is a bidirectional index <-> name mapping. A Pool is scoped to one
// load or save pass and is not safe for concurrent mutation.
type Pool struct {
	names []string
	index map[string]uint16
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{
		index: make(map[string]uint16),
	}
}

// FromStrings creates a pool holding names in the given order.
// Duplicates keep the index of their first occurrence.
func FromStrings(names []string) (*Pool, error) {
	if len(names) > MaxNames {
		return nil, fmt.Errorf("namepool: %d names exceed the limit of %d", len(names), MaxNames)
	}
	p := &Pool{
		names: append([]string(nil), names...),
		index: make(map[string]uint16, len(names)),
	}
	for i, n := range p.names {
		if _, ok := p.index[n]; !ok {
			p.index[n] = uint16(i)
		}
	}
	return p, nil
}

// Size returns the number of names in the pool.
func (p *Pool) Size() int { return len(p.names) }

// Strings returns the names in index order. The slice must not be modified.
func (p *Pool) Strings() []string { return p.names }

// FromIdx resolves an index. ok is false when idx is out of range.
func (p *Pool) FromIdx(idx uint16) (name string, ok bool) {
	if int(idx) >= len(p.names) {
		return "", false
	}
	return p.names[idx], true
}

// Lookup returns the index of name without interning it.
func (p *Pool) Lookup(name string) (idx uint16, ok bool) {
	idx, ok = p.index[name]
	return idx, ok
}

// ToIdx returns the index of name, interning it if needed.
func (p *Pool) ToIdx(name string) (uint16, error) {
	if idx, ok := p.index[name]; ok {
		return idx, nil
	}
	if len(p.names) >= MaxNames {
		return 0, fmt.Errorf("namepool: pool is full, can not intern %q", name)
	}
	idx := uint16(len(p.names))
	p.names = append(p.names, name)
	p.index[name] = idx
	return idx, nil
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// Marshal appends the pool as [u32 count][count x PLString] to dst.
func (p *Pool) Marshal(dst []byte) []byte {
	w := packing.NewWriter(dst)
	w.PutU32(uint32(len(p.names)))
	for _, n := range p.names {
		w.PutPLString(n)
	}
	return w.Bytes()
}

// Unmarshal reads a pool written by Marshal.
func Unmarshal(data []byte) (*Pool, error) {
	r := packing.NewReader(data)
	cnt, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("namepool: reading count: %w", err)
	}
	if cnt > MaxNames {
		return nil, fmt.Errorf("namepool: %d names exceed the limit of %d", cnt, MaxNames)
	}

	names := make([]string, 0, cnt)
	for i := uint32(0); i < cnt; i++ {
		s, err := r.PLString()
		if err != nil {
			return nil, fmt.Errorf("namepool: reading name %d: %w", i, err)
		}
		names = append(names, s)
	}
	if !r.AtEnd() {
		return nil, fmt.Errorf("namepool: %d trailing bytes", r.Remaining())
	}
	return FromStrings(names)
}
