package tree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/csav/cnodes"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/google/go-cmp/cmp"
)

func sampleTree(t *testing.T) *nodetree.Tree {
	t.Helper()
	tree := nodetree.New("root")
	inv := tree.AddChild(tree.Root(), "inventory", nil)
	tree.AddBlob(inv, []byte{2, 0, 0, 0})

	item := &cnodes.ItemData{ID: cnodes.ItemID{NameID: 42, Extra: cnodes.ItemExtra{U8: 2}}, Quantity: 5}
	node, err := item.ToNode(csav.Header{})
	if err != nil {
		t.Fatal(err)
	}
	tree.Graft(inv, node, node.Root())
	// quantity only item: trailer byte 12 == 2
	raw := make([]byte, 24)
	raw[12] = 2
	tree.AddChild(inv, "itemData", raw)

	db := &cnodes.FactsDB{Tables: []cnodes.FactsTable{{Facts: []cnodes.Fact{{Hash: 1, Value: 2}}}}}
	node, err = db.ToNode(csav.Header{})
	if err != nil {
		t.Fatal(err)
	}
	tree.Graft(tree.Root(), node, node.Root())
	return tree
}

func TestFind(t *testing.T) {
	tree := sampleTree(t)
	tests := map[string]struct {
		where string
		want  int
	}{
		"by name":       {`name == "itemData"`, 2},
		"blobs":         {`blob`, 2},
		"by path":       {`path == "root/FactsDB/FactsTable"`, 1},
		"by size":       {`!blob && size > 1000`, 0},
		"root only":     {`depth == 0`, 1},
		"with children": {`children > 0 && !blob`, 3},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			program, err := compileFilter(tt.where)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			n, err := find(&buf, tree, program, util.NewColors(false))
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.want {
				t.Errorf("%d matches, want %d:\n%s", n, tt.want, buf.String())
			}
		})
	}

	if _, err := compileFilter(`name + 1`); err == nil {
		t.Error("non boolean expressions must be rejected")
	}
}

func TestDumpText(t *testing.T) {
	tree := sampleTree(t)
	var buf bytes.Buffer
	writeText(&buf, tree, tree.Root(), dumpOptions{MaxDepth: 1}, util.NewColors(false), 0)

	want := []string{"root", "  inventory", "  FactsDB"}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(want) {
		t.Fatalf("unexpected dump:\n%s", buf.String())
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i], prefix+" ") {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}
}

func TestDumpYAMLNode(t *testing.T) {
	tree := sampleTree(t)
	d := toDumpNode(tree, tree.Root(), dumpOptions{DataBytes: 2}, 0)
	if d.Index == nil || d.Size != tree.SubtreeSize(tree.Root()) {
		t.Errorf("unexpected root %+v", d)
	}
	blob := d.Children[0].Children[0]
	if blob.Index != nil || blob.Data != "0200..." {
		t.Errorf("unexpected blob %+v", blob)
	}
}

func TestCollectStats(t *testing.T) {
	tree := sampleTree(t)
	s := collectStats(tree, 2)

	if s.Nodes != 6 || s.Blobs != 2 {
		t.Errorf("nodes=%d blobs=%d", s.Nodes, s.Blobs)
	}
	if s.Bytes != tree.SubtreeSize(tree.Root()) {
		t.Errorf("bytes = %d", s.Bytes)
	}
	if len(s.Top) != 2 || s.Top[0].Name != "root" {
		t.Errorf("unexpected top list %+v", s.Top)
	}
	var total float64
	for _, b := range s.Buckets {
		total += b.Percent
	}
	if total < 99.9 || total > 100.1 {
		t.Errorf("bucket percentages sum to %f", total)
	}
}

func TestVerify(t *testing.T) {
	f, err := csav.FromTree(csav.Header{GameVersion: 200}, sampleTree(t))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := f.Tree()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := verifyTree(&buf, f, decoded); err != nil {
		t.Errorf("verifyTree: %v\n%s", err, buf.String())
	}

	results := verifyNodes(decoded, f.Header)
	if len(results) != 3 {
		t.Fatalf("expected 3 typed nodes, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s #%d: %v", r.Name, r.Index, r.Err)
		}
	}
}

func TestWriteDiff(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, "a\nb\nc\n", "a\nx\nc\n")
	if diff := cmp.Diff("- b\n+ x\n", buf.String()); diff != "" {
		t.Errorf("unexpected diff output (-want +got):\n%s", diff)
	}
}
