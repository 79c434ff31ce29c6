package cnodes

import (
	"math"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/ValentinKolb/csav/lib/packing"
)

// Item kinds, named after the sections an itemData node carries.
const (
	KindQuantityAndParts uint8 = 0
	KindQuantityOnly     uint8 = 1
	KindPartsOnly        uint8 = 2
)

// PartStampVersion is the first game version storing a stamp after every part.
const PartStampVersion = 192

// maxPartDepth bounds the nesting of item parts.
const maxPartDepth = 64

// ItemExtra is the 7 byte trailer of an item id.
type ItemExtra struct {
	U32 uint32
	U8  uint8
	U16 uint16
}

// Kind derives the item kind from the trailer bits.
func (e ItemExtra) Kind() uint8 {
	switch e.U8 {
	case 1:
		return KindPartsOnly
	case 2:
		return KindQuantityOnly
	case 3:
		return KindQuantityAndParts
	}
	if e.U32 != 2 {
		return KindPartsOnly
	}
	return KindQuantityOnly
}

// ItemID identifies an item: [u64 name hash][u32][u8][u16].
type ItemID struct {
	NameID uint64
	Extra  ItemExtra
}

func (id *ItemID) read(r *packing.Reader) (err error) {
	if id.NameID, err = r.U64(); err != nil {
		return err
	}
	if id.Extra.U32, err = r.U32(); err != nil {
		return err
	}
	if id.Extra.U8, err = r.U8(); err != nil {
		return err
	}
	id.Extra.U16, err = r.U16()
	return err
}

func (id *ItemID) write(w *packing.Writer) {
	w.PutU64(id.NameID)
	w.PutU32(id.Extra.U32)
	w.PutU8(id.Extra.U8)
	w.PutU16(id.Extra.U16)
}

// ItemStamp is a name hash with two trailing values: [u64][u32][f32].
type ItemStamp struct {
	NameID uint64
	U32    uint32
	Float  float32
}

// NewItemStamp returns the default stamp.
func NewItemStamp() ItemStamp { return ItemStamp{Float: math.MaxFloat32} }

func (s *ItemStamp) read(r *packing.Reader) (err error) {
	if s.NameID, err = r.U64(); err != nil {
		return err
	}
	if s.U32, err = r.U32(); err != nil {
		return err
	}
	s.Float, err = r.F32()
	return err
}

func (s *ItemStamp) write(w *packing.Writer) {
	w.PutU64(s.NameID)
	w.PutU32(s.U32)
	w.PutF32(s.Float)
}

// ItemPart is an attachment of an item; parts nest.
type ItemPart struct {
	ID         ItemID
	Slot       string
	Attachment uint64
	Parts      []ItemPart
	U32        uint32
	// Stamp is only stored from PartStampVersion on.
	Stamp ItemStamp
}

// minPartSize is the smallest encoded part (empty slot, no children, no stamp).
const minPartSize = 15 + 1 + 8 + 1 + 4

func (p *ItemPart) read(r *packing.Reader, h csav.Header, depth int) error {
	if depth > maxPartDepth {
		return common.Corruptionf("item parts nested deeper than %d", maxPartDepth)
	}
	if err := p.ID.read(r); err != nil {
		return err
	}
	var err error
	if p.Slot, err = r.PLString(); err != nil {
		return err
	}
	if p.Attachment, err = r.U64(); err != nil {
		return err
	}

	cnt, err := r.PackedInt()
	if err != nil {
		return err
	}
	if cnt < 0 || cnt > int64(r.Remaining()/minPartSize) {
		return common.Corruptionf("item part count %d", cnt)
	}
	p.Parts = make([]ItemPart, cnt)
	for i := range p.Parts {
		if err := p.Parts[i].read(r, h, depth+1); err != nil {
			return err
		}
	}

	if p.U32, err = r.U32(); err != nil {
		return err
	}
	p.Stamp = NewItemStamp()
	if h.GameVersion >= PartStampVersion {
		return p.Stamp.read(r)
	}
	return nil
}

func (p *ItemPart) write(w *packing.Writer, h csav.Header) {
	p.ID.write(w)
	w.PutPLString(p.Slot)
	w.PutU64(p.Attachment)
	w.PutPackedInt(int64(len(p.Parts)))
	for i := range p.Parts {
		p.Parts[i].write(w, h)
	}
	w.PutU32(p.U32)
	if h.GameVersion >= PartStampVersion {
		p.Stamp.write(w)
	}
}

// ItemData is the content of an itemData node. Which sections are present
// depends on the kind of the item id.
type ItemData struct {
	ID    ItemID
	Flags uint8
	U32   uint32
	// Quantity is stored unless the kind is KindPartsOnly.
	Quantity uint32
	// Stamp and Root are stored unless the kind is KindQuantityOnly.
	Stamp ItemStamp
	Root  ItemPart
}

func (d *ItemData) NodeName() string { return "itemData" }

// Kind is the kind of the item id.
func (d *ItemData) Kind() uint8 { return d.ID.Extra.Kind() }

func (d *ItemData) FromNode(t *nodetree.Tree, id nodetree.NodeID, h csav.Header) error {
	r := nodetree.NewReader(t, id)

	if err := d.ID.read(r.Reader); err != nil {
		return common.WrapCorruption(err, "item id")
	}
	kind := d.Kind()

	var err error
	if d.Flags, err = r.U8(); err != nil {
		return common.WrapCorruption(err, "flags")
	}
	if d.U32, err = r.U32(); err != nil {
		return common.WrapCorruption(err, "header")
	}

	if kind != KindPartsOnly {
		if d.Quantity, err = r.U32(); err != nil {
			return common.WrapCorruption(err, "quantity")
		}
	}

	d.Stamp = NewItemStamp()
	d.Root = ItemPart{Stamp: NewItemStamp()}
	if kind != KindQuantityOnly {
		if err := d.Stamp.read(r.Reader); err != nil {
			return common.WrapCorruption(err, "stamp")
		}
		if err := d.Root.read(r.Reader, h, 0); err != nil {
			return common.WrapCorruption(err, "parts")
		}
	}
	return r.ExpectEnd()
}

func (d *ItemData) ToNode(h csav.Header) (*nodetree.Tree, error) {
	w := nodetree.NewWriter()
	kind := d.Kind()

	d.ID.write(w.Writer)
	w.PutU8(d.Flags)
	w.PutU32(d.U32)
	if kind != KindPartsOnly {
		w.PutU32(d.Quantity)
	}
	if kind != KindQuantityOnly {
		d.Stamp.write(w.Writer)
		d.Root.write(w.Writer, h)
	}
	return w.Finalize(d.NodeName()), nil
}

// CountParts returns the number of parts below the root part.
func (d *ItemData) CountParts() int {
	var count func(p *ItemPart) int
	count = func(p *ItemPart) int {
		n := len(p.Parts)
		for i := range p.Parts {
			n += count(&p.Parts[i])
		}
		return n
	}
	return count(&d.Root)
}
