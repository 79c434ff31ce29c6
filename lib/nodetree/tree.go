package nodetree

// NodeID addresses a node inside the arena of its Tree.
type NodeID int32

// NullIdx marks a missing sibling/child in the descriptor table and the
// table index of anonymous raw data nodes.
const NullIdx int32 = -1

// Node is an element of a Tree.
type Node struct {
	// Name of the node. Anonymous data nodes are called "datablob".
	Name string
	// Index is the descriptor table index the node was decoded from,
	// NullIdx for anonymous data nodes. Encode reassigns indices.
	Index int32
	// Data holds the bytes not claimed by any child. After Decode the slice
	// aliases the decoded buffer.
	Data []byte
	// Children in order.
	Children []NodeID

	blob bool
}

// IsBlob reports whether the node is an anonymous raw data fragment.
func (n *Node) IsBlob() bool { return n.blob }

// BlobName is the name given to anonymous raw data nodes
const BlobName = "datablob"

// Tree owns all of its nodes in one growable array; children are referenced by NodeID.
type Tree struct {
	nodes []Node
	root  NodeID
}

// New creates a tree with a single, empty root node.
func New(rootName string) *Tree {
	t := &Tree{}
	t.root = t.add(Node{Name: rootName, Index: NullIdx})
	return t
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Root returns the root node id.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes (including anonymous ones).
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id. The pointer is only valid until
// the next node is added to the tree.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Children returns the children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].Children }

// AddChild appends a named child holding data to parent.
func (t *Tree) AddChild(parent NodeID, name string, data []byte) NodeID {
	id := t.add(Node{Name: name, Index: NullIdx, Data: data})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// AddBlob appends an anonymous raw data child to parent.
func (t *Tree) AddBlob(parent NodeID, data []byte) NodeID {
	id := t.add(Node{Name: BlobName, Index: NullIdx, Data: data, blob: true})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id
}

// FindChild returns the first named (non blob) child of parent called name.
func (t *Tree) FindChild(parent NodeID, name string) (NodeID, bool) {
	for _, c := range t.nodes[parent].Children {
		if n := &t.nodes[c]; !n.blob && n.Name == name {
			return c, true
		}
	}
	return 0, false
}

// Find returns the first named node called name in pre-order.
func (t *Tree) Find(name string) (NodeID, bool) {
	var found NodeID
	ok := false
	t.Walk(func(id NodeID, depth int) bool {
		if ok {
			return false
		}
		if n := &t.nodes[id]; !n.blob && n.Name == name {
			found, ok = id, true
			return false
		}
		return true
	})
	return found, ok
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// children of the visited node.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	for _, c := range t.nodes[id].Children {
		t.walk(c, depth+1, fn)
	}
}

// SubtreeSize returns the number of payload bytes the subtree of id occupies
// once encoded (self index headers included).
func (t *Tree) SubtreeSize(id NodeID) int {
	n := &t.nodes[id]
	size := len(n.Data)
	if !n.blob {
		size += 4
	}
	for _, c := range n.Children {
		size += t.SubtreeSize(c)
	}
	return size
}

// Graft copies the subtree rooted at srcID of src below parent and returns the
// id of the copy. Data slices are shared, not copied.
func (t *Tree) Graft(parent NodeID, src *Tree, srcID NodeID) NodeID {
	sn := src.nodes[srcID]
	id := t.add(Node{Name: sn.Name, Index: sn.Index, Data: sn.Data, blob: sn.blob})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	for _, c := range sn.Children {
		t.Graft(id, src, c)
	}
	return id
}

// Subtree returns a new tree holding a copy of the subtree rooted at id.
func (t *Tree) Subtree(id NodeID) *Tree {
	sn := t.nodes[id]
	out := &Tree{}
	out.root = out.add(Node{Name: sn.Name, Index: sn.Index, Data: sn.Data, blob: sn.blob})
	for _, c := range sn.Children {
		out.Graft(out.root, t, c)
	}
	return out
}

// Clone returns a deep copy of the tree, data included, so the copy no longer
// aliases the decoded buffer.
func (t *Tree) Clone() *Tree {
	out := &Tree{root: t.root, nodes: make([]Node, len(t.nodes))}
	for i, n := range t.nodes {
		n.Data = append([]byte(nil), n.Data...)
		n.Children = append([]NodeID(nil), n.Children...)
		out.nodes[i] = n
	}
	return out
}
