package nodetree

import (
	"fmt"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/packing"
)

// --------------------------------------------------------------------------
// Reader
// --------------------------------------------------------------------------

// Reader reads the content of one node the way typed decoders expect it:
// byte values come from the node's own data or from consecutive anonymous
// children (joined into one run), named children are consumed with ReadChild.
type Reader struct {
	*packing.Reader
	tree *Tree
	id   NodeID
	next int // index of the next child not yet consumed
	data bool
}

// NewReader creates a reader positioned at the start of the node id.
func NewReader(t *Tree, id NodeID) *Reader {
	r := &Reader{tree: t, id: id}
	r.loadRun()
	return r
}

// loadRun joins the node data (first run only) and the following blob
// children into the current byte run.
func (r *Reader) loadRun() {
	n := r.tree.Node(r.id)

	var segments [][]byte
	if !r.data {
		r.data = true
		if len(n.Data) > 0 {
			segments = append(segments, n.Data)
		}
	}
	for r.next < len(n.Children) {
		c := r.tree.Node(n.Children[r.next])
		if !c.IsBlob() {
			break
		}
		segments = append(segments, c.Data)
		r.next++
	}

	switch len(segments) {
	case 0:
		r.Reader = packing.NewReader(nil)
	case 1:
		r.Reader = packing.NewReader(segments[0])
	default:
		var joined []byte
		for _, s := range segments {
			joined = append(joined, s...)
		}
		r.Reader = packing.NewReader(joined)
	}
}

// ReadChild consumes the next named child. The current byte run must be
// fully consumed and, if name is not empty, the child must be called name.
func (r *Reader) ReadChild(name string) (NodeID, error) {
	if r.Remaining() > 0 {
		return 0, common.Corruptionf("%d unread bytes before child %q", r.Remaining(), name)
	}
	children := r.tree.Node(r.id).Children
	if r.next >= len(children) {
		return 0, common.Corruptionf("expected child %q, node has no more children", name)
	}

	id := children[r.next]
	if got := r.tree.Node(id).Name; name != "" && got != name {
		return 0, common.Corruptionf("expected child %q, found %q", name, got)
	}
	r.next++
	r.loadRun()
	return id, nil
}

// AtEnd reports whether every byte and every child of the node was consumed.
func (r *Reader) AtEnd() bool {
	return r.Reader.AtEnd() && r.next >= len(r.tree.Node(r.id).Children)
}

// ExpectEnd returns a corruption error if the node was not fully consumed.
func (r *Reader) ExpectEnd() error {
	if !r.AtEnd() {
		n := r.tree.Node(r.id)
		return common.Corruptionf("node %s: %d unread bytes, %d unread children",
			n.Name, r.Remaining(), len(n.Children)-r.next)
	}
	return nil
}

// --------------------------------------------------------------------------
// Writer
// --------------------------------------------------------------------------

// Writer builds a node for typed encoders: bytes written between children
// become anonymous data nodes, a node without children keeps them as its data.
type Writer struct {
	*packing.Writer
	tree *Tree
}

// NewWriter creates a writer for a new node.
func NewWriter() *Writer {
	return &Writer{
		Writer: packing.NewWriter(nil),
		tree:   New(""),
	}
}

func (w *Writer) flush() {
	if w.Len() > 0 {
		w.tree.AddBlob(w.tree.root, w.Bytes())
		w.Writer = packing.NewWriter(nil)
	}
}

// WriteChild appends a copy of sub as the next child.
func (w *Writer) WriteChild(sub *Tree) error {
	if sub == nil {
		return fmt.Errorf("nodetree: nil child tree")
	}
	w.flush()
	w.tree.Graft(w.tree.root, sub, sub.Root())
	return nil
}

// Finalize names the node and returns it as a tree. The writer must not be
// used afterwards.
func (w *Writer) Finalize(name string) *Tree {
	root := w.tree.Node(w.tree.root)
	root.Name = name
	if len(root.Children) == 0 {
		if w.Len() > 0 {
			root.Data = w.Bytes()
		}
	} else {
		w.flush()
	}
	return w.tree
}
