package nodetree

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/packing"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// shape is a structural view of a subtree that ignores arena layout.
type shape struct {
	Name     string
	Blob     bool
	Data     []byte
	Children []shape
}

func shapeOf(t *Tree, id NodeID) shape {
	n := t.Node(id)
	s := shape{Name: n.Name, Blob: n.IsBlob(), Data: n.Data}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(t, c))
	}
	return s
}

// exampleBuffer builds a 30 byte root holding one 10 byte leaf at offset 4.
func exampleBuffer() ([]Descriptor, []byte) {
	buf := make([]byte, 30)
	binary.LittleEndian.PutUint32(buf[0:], 0)
	binary.LittleEndian.PutUint32(buf[4:], 1)
	for i := 8; i < 14; i++ {
		buf[i] = 0xA0 + byte(i)
	}
	for i := 14; i < 30; i++ {
		buf[i] = byte(i)
	}
	table := []Descriptor{
		{Name: "root", Next: NullIdx, Child: 1, Offset: 0, Size: 30},
		{Name: "leaf", Next: NullIdx, Child: NullIdx, Offset: 4, Size: 10},
	}
	return table, buf
}

func TestDecodeExample(t *testing.T) {
	table, buf := exampleBuffer()

	tree, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := shape{
		Name: "root",
		Children: []shape{
			{Name: "leaf", Data: buf[8:14]},
			{Name: BlobName, Blob: true, Data: buf[14:30]},
		},
	}
	if diff := cmp.Diff(want, shapeOf(tree, tree.Root()), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("decoded tree mismatch (-want +got):\n%s", diff)
	}

	blobBytes := 0
	for _, c := range tree.Children(tree.Root()) {
		if n := tree.Node(c); n.IsBlob() {
			blobBytes += len(n.Data)
		}
	}
	if blobBytes != 30-4-10 {
		t.Errorf("blob bytes = %d, want %d", blobBytes, 30-4-10)
	}
}

func TestDecodeGapBeforeChild(t *testing.T) {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[10:], 1)
	table := []Descriptor{
		{Name: "root", Next: NullIdx, Child: 1, Offset: 0, Size: 20},
		{Name: "leaf", Next: NullIdx, Child: NullIdx, Offset: 10, Size: 10},
	}

	tree, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	children := tree.Children(tree.Root())
	if len(children) != 2 {
		t.Fatalf("expected blob + leaf, got %d children", len(children))
	}
	if n := tree.Node(children[0]); !n.IsBlob() || len(n.Data) != 6 {
		t.Errorf("expected a 6 byte blob before the leaf, got %+v", n)
	}
	if n := tree.Node(children[1]); n.Name != "leaf" || len(n.Data) != 6 {
		t.Errorf("expected leaf with 6 data bytes, got %+v", n)
	}
}

func TestDecodeCorruption(t *testing.T) {
	tests := map[string]func() ([]Descriptor, []byte){
		"self index mismatch": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			binary.LittleEndian.PutUint32(buf[4:], 7)
			return table, buf
		},
		"child index out of range": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[0].Child = 5
			return table, buf
		},
		"end beyond buffer": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[0].Size = 31
			return table, buf
		},
		"child beyond parent": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[0].Size = 12
			return table, buf
		},
		"size below header": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[1].Size = 3
			return table, buf
		},
		"sibling cycle": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[1].Next = 1
			return table, buf
		},
		"child points to root": func() ([]Descriptor, []byte) {
			table, buf := exampleBuffer()
			table[1].Child = 0
			return table, buf
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			table, buf := build()
			_, err := Decode(buf, table, 0)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, common.ErrCorruption) {
				t.Errorf("expected a corruption error, got %v", err)
			}
		})
	}
}

func TestDecodeMaxDepth(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[4:], 1)
	binary.LittleEndian.PutUint32(buf[8:], 2)
	table := []Descriptor{
		{Name: "a", Next: NullIdx, Child: 1, Offset: 0, Size: 12},
		{Name: "b", Next: NullIdx, Child: 2, Offset: 4, Size: 8},
		{Name: "c", Next: NullIdx, Child: NullIdx, Offset: 8, Size: 4},
	}

	if _, err := DecodeWithOptions(buf, table, 0, &DecodeOptions{MaxDepth: 1}); !errors.Is(err, common.ErrCorruption) {
		t.Errorf("expected depth limit to trigger, got %v", err)
	}
	if _, err := DecodeWithOptions(buf, table, 0, &DecodeOptions{MaxDepth: 2}); err != nil {
		t.Errorf("depth 2 must be accepted: %v", err)
	}
}

func TestDecodeRootExemptFromSelfIndex(t *testing.T) {
	table, buf := exampleBuffer()
	binary.LittleEndian.PutUint32(buf[0:], 0xdeadbeef)
	if _, err := Decode(buf, table, 0); err != nil {
		t.Errorf("root self index must not be checked: %v", err)
	}
}

func TestEncodeReproducesBuffer(t *testing.T) {
	table, buf := exampleBuffer()
	tree, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatal(err)
	}

	gotTable, gotBuf, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if diff := cmp.Diff(table, gotTable); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(buf, gotBuf); diff != "" {
		t.Errorf("buffer mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := New("FactsDB")
	a := tree.AddChild(tree.Root(), "FactsTable", nil)
	tree.AddBlob(a, []byte{1, 2, 3, 9, 9})
	tree.AddChild(a, "inner", nil)
	tree.AddBlob(tree.Root(), []byte{4, 5, 6, 7})
	tree.AddChild(tree.Root(), "FactsTable", []byte{8})

	table, buf, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("expected 4 named rows, got %d", len(table))
	}
	if len(buf) != tree.SubtreeSize(tree.Root()) {
		t.Errorf("buffer size %d, SubtreeSize %d", len(buf), tree.SubtreeSize(tree.Root()))
	}
	// pre-order numbering
	for i, name := range []string{"FactsDB", "FactsTable", "inner", "FactsTable"} {
		if table[i].Name != name {
			t.Errorf("row %d = %s, want %s", i, table[i].Name, name)
		}
	}
	if table[1].Next != 3 || table[0].Child != 1 || table[1].Child != 2 {
		t.Errorf("unexpected links: %+v", table)
	}

	back, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(shapeOf(tree, tree.Root()), shapeOf(back, back.Root()), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOwnDataWithChildren(t *testing.T) {
	tree := New("root")
	parent := tree.AddChild(tree.Root(), "parent", []byte{7, 7})
	tree.AddChild(parent, "child", []byte{1})

	table, buf, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	p, ok := back.FindChild(back.Root(), "parent")
	if !ok {
		t.Fatalf("parent missing after decode")
	}
	if len(back.Node(p).Data) != 0 {
		t.Errorf("own data must not come back as Data, got %v", back.Node(p).Data)
	}
	kids := back.Children(p)
	if len(kids) != 2 || !back.Node(kids[0]).IsBlob() {
		t.Fatalf("expected a leading blob and the child, got %d children", len(kids))
	}
	if diff := cmp.Diff([]byte{7, 7}, back.Node(kids[0]).Data); diff != "" {
		t.Errorf("blob data (-want +got):\n%s", diff)
	}
}

func TestEncodeBlobRoot(t *testing.T) {
	tree := New("root")
	blob := tree.AddBlob(tree.Root(), []byte{1})
	if _, _, err := Encode(tree.Subtree(blob)); !errors.Is(err, common.ErrInvalidOperation) {
		t.Errorf("expected invalid operation, got %v", err)
	}
}

func TestSubtreeAndClone(t *testing.T) {
	table, buf := exampleBuffer()
	tree, _ := Decode(buf, table, 0)

	leaf, ok := tree.Find("leaf")
	if !ok {
		t.Fatal("leaf not found")
	}
	sub := tree.Subtree(leaf)
	if sub.Len() != 1 || sub.Node(sub.Root()).Name != "leaf" {
		t.Errorf("unexpected subtree %+v", shapeOf(sub, sub.Root()))
	}

	clone := tree.Clone()
	buf[8] = 0xff
	if clone.Node(leaf).Data[0] == 0xff {
		t.Errorf("clone must not alias the decoded buffer")
	}
	if tree.Node(leaf).Data[0] != 0xff {
		t.Errorf("decoded tree is expected to alias the buffer")
	}
}

func TestWriterReader(t *testing.T) {
	leafW := NewWriter()
	leafW.PutU16(0xbeef)
	leaf := leafW.Finalize("leaf")
	if d := leaf.Node(leaf.Root()).Data; len(d) != 2 {
		t.Fatalf("leaf without children must keep its bytes as data, got %v", d)
	}

	w := NewWriter()
	w.PutU32(7)
	w.PutPackedInt(-3)
	if err := w.WriteChild(leaf); err != nil {
		t.Fatal(err)
	}
	w.PutU8(9)
	node := w.Finalize("parent")

	table, buf, err := Encode(node)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := Decode(buf, table, 0)
	if err != nil {
		t.Fatal(err)
	}

	r := NewReader(tree, tree.Root())
	if v, err := r.U32(); err != nil || v != 7 {
		t.Fatalf("U32 = %d, %v", v, err)
	}
	if _, err := r.ReadChild("leaf"); err == nil {
		t.Errorf("ReadChild must fail while bytes are unread")
	}
	if v, err := r.PackedInt(); err != nil || v != -3 {
		t.Fatalf("PackedInt = %d, %v", v, err)
	}
	if _, err := r.ReadChild("other"); !errors.Is(err, common.ErrCorruption) {
		t.Errorf("expected name mismatch, got %v", err)
	}
	id, err := r.ReadChild("leaf")
	if err != nil {
		t.Fatal(err)
	}
	lr := NewReader(tree, id)
	if v, _ := lr.U16(); v != 0xbeef || !lr.AtEnd() {
		t.Errorf("leaf content = %x, at end %v", v, lr.AtEnd())
	}

	if r.AtEnd() {
		t.Errorf("trailing byte not consumed yet")
	}
	if v, err := r.U8(); err != nil || v != 9 {
		t.Fatalf("U8 = %d, %v", v, err)
	}
	if err := r.ExpectEnd(); err != nil {
		t.Error(err)
	}
}

func TestReaderJoinsRuns(t *testing.T) {
	tree := New("n")
	tree.Node(tree.Root()).Data = []byte{1, 0}
	tree.AddBlob(tree.Root(), []byte{0, 0})
	tree.AddBlob(tree.Root(), []byte{2})

	r := NewReader(tree, tree.Root())
	if v, err := r.U32(); err != nil || v != 1 {
		t.Errorf("U32 across runs = %d, %v", v, err)
	}
	if v, _ := r.U8(); v != 2 || !r.AtEnd() {
		t.Errorf("U8 = %d, at end %v", v, r.AtEnd())
	}
}

func TestDescriptorTable(t *testing.T) {
	table, _ := exampleBuffer()
	w := packing.NewWriter(nil)
	AppendTable(w, table)

	got, err := ReadTable(packing.NewReader(w.Bytes()), len(table))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(table, got); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadTable(packing.NewReader(w.Bytes()), 1<<20); err == nil {
		t.Errorf("oversized descriptor count must be rejected")
	}
}
