// Package cnodes contains typed decoders for individual save nodes. They read
// a node through nodetree.Reader and write it back through nodetree.Writer,
// so raw bytes and child nodes can be mixed freely.
//
// Supported nodes:
//
//   - itemData: an inventory item. The sections it carries depend on the kind
//     derived from the item id trailer (see ItemExtra.Kind).
//   - FactsDB / FactsTable: the quest facts database.
package cnodes
