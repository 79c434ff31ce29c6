package cnodes

import (
	"errors"
	"math"
	"testing"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestItemKind(t *testing.T) {
	tests := []struct {
		extra ItemExtra
		want  uint8
	}{
		{ItemExtra{U8: 1, U32: 2}, KindPartsOnly},
		{ItemExtra{U8: 2}, KindQuantityOnly},
		{ItemExtra{U8: 3, U32: 2}, KindQuantityAndParts},
		{ItemExtra{U8: 0, U32: 2}, KindQuantityOnly},
		{ItemExtra{U8: 0, U32: 0}, KindPartsOnly},
		{ItemExtra{U8: 7, U32: 5}, KindPartsOnly},
		{ItemExtra{U8: 4, U32: 2}, KindQuantityOnly},
	}
	for _, tt := range tests {
		if got := tt.extra.Kind(); got != tt.want {
			t.Errorf("Kind(%+v) = %d, want %d", tt.extra, got, tt.want)
		}
	}
}

// roundTrip encodes v, flattens it like a save would and decodes it into out.
func roundTrip(t *testing.T, v, out NodeSerializable, h csav.Header) {
	t.Helper()
	node, err := v.ToNode(h)
	if err != nil {
		t.Fatalf("ToNode: %v", err)
	}
	table, buf, err := nodetree.Encode(node)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	tree, err := nodetree.Decode(buf, table, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := Decode(out, tree, tree.Root(), h); err != nil {
		t.Fatalf("FromNode: %v", err)
	}
}

func sampleItem(extra ItemExtra) *ItemData {
	return &ItemData{
		ID:       ItemID{NameID: 0x0102030405060708, Extra: extra},
		Flags:    1,
		U32:      7,
		Quantity: 3,
		Stamp:    ItemStamp{NameID: 11, U32: 12, Float: 1.5},
		Root: ItemPart{
			ID:         ItemID{NameID: 20},
			Slot:       "AttachmentSlots.Scope",
			Attachment: 21,
			U32:        22,
			Stamp:      NewItemStamp(),
			Parts: []ItemPart{
				{ID: ItemID{NameID: 30}, Slot: "Mod", Stamp: ItemStamp{NameID: 31, Float: 2}},
				{ID: ItemID{NameID: 40}, Slot: "Ünicode", Stamp: NewItemStamp(), Parts: []ItemPart{
					{ID: ItemID{NameID: 41}, Stamp: NewItemStamp()},
				}},
			},
		},
	}
}

func TestItemDataRoundTrip(t *testing.T) {
	tests := map[string]ItemExtra{
		"quantity and parts": {U8: 3},
		"quantity only":      {U8: 2},
		"parts only":         {U8: 1},
	}
	h := csav.Header{GameVersion: PartStampVersion}

	for name, extra := range tests {
		t.Run(name, func(t *testing.T) {
			in := sampleItem(extra)
			var out ItemData
			roundTrip(t, in, &out, h)

			want := *in
			switch in.Kind() {
			case KindQuantityOnly:
				want.Stamp = NewItemStamp()
				want.Root = ItemPart{Stamp: NewItemStamp()}
			case KindPartsOnly:
				want.Quantity = 0
			}
			if diff := cmp.Diff(want, out, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("item mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItemPartStampVersion(t *testing.T) {
	in := sampleItem(ItemExtra{U8: 1})
	old := csav.Header{GameVersion: PartStampVersion - 1}

	oldNode, _ := in.ToNode(old)
	newNode, _ := in.ToNode(csav.Header{GameVersion: PartStampVersion})
	oldLen := len(oldNode.Node(oldNode.Root()).Data)
	newLen := len(newNode.Node(newNode.Root()).Data)
	// four parts, 16 bytes of stamp each
	if newLen-oldLen != 4*16 {
		t.Errorf("stamp bytes = %d, want %d", newLen-oldLen, 4*16)
	}

	var out ItemData
	roundTrip(t, in, &out, old)
	if out.Root.Parts[0].Stamp.Float != math.MaxFloat32 {
		t.Errorf("parts of old saves must carry the default stamp, got %+v", out.Root.Parts[0].Stamp)
	}
	if out.CountParts() != 3 {
		t.Errorf("CountParts = %d, want 3", out.CountParts())
	}
}

func TestItemDataTrailingBytes(t *testing.T) {
	node, _ := sampleItem(ItemExtra{U8: 2}).ToNode(csav.Header{})
	n := node.Node(node.Root())
	n.Data = append(n.Data, 0xFF)

	var out ItemData
	if err := out.FromNode(node, node.Root(), csav.Header{}); !errors.Is(err, common.ErrCorruption) {
		t.Errorf("expected corruption for trailing bytes, got %v", err)
	}
}

func TestFactsDBRoundTrip(t *testing.T) {
	in := &FactsDB{Tables: []FactsTable{
		{Facts: []Fact{{Hash: 0xAABBCCDD, Value: 1}, {Hash: 2, Value: 0}}},
		{},
		{Facts: []Fact{{Hash: 3, Value: 300}}},
	}}

	var out FactsDB
	roundTrip(t, in, &out, csav.Header{})
	if diff := cmp.Diff(in.Tables, out.Tables, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("facts mismatch (-want +got):\n%s", diff)
	}
	if out.Count() != 3 {
		t.Errorf("Count = %d, want 3", out.Count())
	}
	if v, ok := out.Tables[0].Lookup(0xAABBCCDD); !ok || v != 1 {
		t.Errorf("Lookup = %d, %v", v, ok)
	}
}

func TestFactsDBClampsCount(t *testing.T) {
	// announce 12 tables, store 10
	w := nodetree.NewWriter()
	w.PutPackedInt(12)
	for i := 0; i < MaxFactsTables; i++ {
		sub, _ := (&FactsTable{Facts: []Fact{{Hash: uint32(i), Value: 1}}}).ToNode(csav.Header{})
		if err := w.WriteChild(sub); err != nil {
			t.Fatal(err)
		}
	}
	node := w.Finalize("FactsDB")

	var db FactsDB
	if err := Decode(&db, node, node.Root(), csav.Header{}); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(db.Tables) != MaxFactsTables {
		t.Errorf("decoded %d tables, want %d", len(db.Tables), MaxFactsTables)
	}

	db.Tables = append(db.Tables, FactsTable{})
	if _, err := db.ToNode(csav.Header{}); !errors.Is(err, common.ErrEncode) {
		t.Errorf("encoding more than %d tables must fail, got %v", MaxFactsTables, err)
	}
}

func TestFactsTableCorruption(t *testing.T) {
	w := nodetree.NewWriter()
	w.PutPackedInt(5)
	w.PutU32(1)
	node := w.Finalize("FactsTable")

	var ft FactsTable
	if err := ft.FromNode(node, node.Root(), csav.Header{}); !errors.Is(err, common.ErrCorruption) {
		t.Errorf("expected corruption, got %v", err)
	}
}

func TestDecodeWrongNode(t *testing.T) {
	tree := nodetree.New("itemData")
	if err := Decode(&FactsDB{}, tree, tree.Root(), csav.Header{}); err == nil {
		t.Error("expected an error for a node with another name")
	}
}

func TestFindAll(t *testing.T) {
	tree := nodetree.New("root")
	inv := tree.AddChild(tree.Root(), "inventory", nil)
	a := tree.AddChild(inv, "itemData", nil)
	tree.AddBlob(inv, []byte{1})
	b := tree.AddChild(inv, "itemData", nil)

	if diff := cmp.Diff([]nodetree.NodeID{a, b}, FindAll(tree, "itemData")); diff != "" {
		t.Errorf("FindAll mismatch (-want +got):\n%s", diff)
	}
}
