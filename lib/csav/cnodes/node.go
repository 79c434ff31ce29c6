package cnodes

import (
	"fmt"

	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("cnodes")

// NodeSerializable is a typed view of a node.
type NodeSerializable interface {
	// NodeName is the name of the node the type is stored in.
	NodeName() string
	// FromNode decodes the node id of t. The node must be fully consumed.
	FromNode(t *nodetree.Tree, id nodetree.NodeID, h csav.Header) error
	// ToNode encodes the value into a new single rooted tree.
	ToNode(h csav.Header) (*nodetree.Tree, error)
}

// Decode checks the node name and decodes it into v.
func Decode(v NodeSerializable, t *nodetree.Tree, id nodetree.NodeID, h csav.Header) error {
	if got := t.Node(id).Name; got != v.NodeName() {
		return fmt.Errorf("cnodes: expected a %s node, got %s", v.NodeName(), got)
	}
	if err := v.FromNode(t, id, h); err != nil {
		plog.Debugf("decoding %s failed: %v", v.NodeName(), err)
		return fmt.Errorf("cnodes: %s: %w", v.NodeName(), err)
	}
	return nil
}

// FindAll returns every node called name in pre-order.
func FindAll(t *nodetree.Tree, name string) []nodetree.NodeID {
	var ids []nodetree.NodeID
	t.Walk(func(id nodetree.NodeID, _ int) bool {
		if n := t.Node(id); !n.IsBlob() && n.Name == name {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}
