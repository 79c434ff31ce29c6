package cnodes

import (
	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/nodetree"
)

// MaxFactsTables is the number of tables a FactsDB holds at most.
const MaxFactsTables = 10

// Fact is a quest fact: a name hash and its value.
type Fact struct {
	Hash  uint32
	Value uint32
}

// FactsTable is the content of a FactsTable node:
// [packed count][count x u32 hash][count x u32 value].
type FactsTable struct {
	Facts []Fact
}

func (ft *FactsTable) NodeName() string { return "FactsTable" }

func (ft *FactsTable) FromNode(t *nodetree.Tree, id nodetree.NodeID, _ csav.Header) error {
	r := nodetree.NewReader(t, id)

	cnt, err := r.PackedInt()
	if err != nil {
		return common.WrapCorruption(err, "fact count")
	}
	if cnt < 0 || cnt > int64(r.Remaining()/8) {
		return common.Corruptionf("fact count %d with %d bytes left", cnt, r.Remaining())
	}

	ft.Facts = make([]Fact, cnt)
	for i := range ft.Facts {
		if ft.Facts[i].Hash, err = r.U32(); err != nil {
			return common.WrapCorruption(err, "fact hash %d", i)
		}
	}
	for i := range ft.Facts {
		if ft.Facts[i].Value, err = r.U32(); err != nil {
			return common.WrapCorruption(err, "fact value %d", i)
		}
	}
	return r.ExpectEnd()
}

func (ft *FactsTable) ToNode(_ csav.Header) (*nodetree.Tree, error) {
	w := nodetree.NewWriter()
	w.PutPackedInt(int64(len(ft.Facts)))
	for _, f := range ft.Facts {
		w.PutU32(f.Hash)
	}
	for _, f := range ft.Facts {
		w.PutU32(f.Value)
	}
	return w.Finalize(ft.NodeName()), nil
}

// Lookup returns the value of the fact with the given hash.
func (ft *FactsTable) Lookup(hash uint32) (uint32, bool) {
	for _, f := range ft.Facts {
		if f.Hash == hash {
			return f.Value, true
		}
	}
	return 0, false
}

// FactsDB is the content of a FactsDB node: a packed table count followed by
// FactsTable children.
type FactsDB struct {
	Tables []FactsTable
}

func (db *FactsDB) NodeName() string { return "FactsDB" }

func (db *FactsDB) FromNode(t *nodetree.Tree, id nodetree.NodeID, h csav.Header) error {
	r := nodetree.NewReader(t, id)

	cnt, err := r.PackedInt()
	if err != nil {
		return common.WrapCorruption(err, "table count")
	}
	if cnt < 0 {
		return common.Corruptionf("table count %d", cnt)
	}
	if cnt > MaxFactsTables {
		plog.Warningf("FactsDB announces %d tables, reading %d", cnt, MaxFactsTables)
		cnt = MaxFactsTables
	}

	db.Tables = make([]FactsTable, cnt)
	for i := range db.Tables {
		child, err := r.ReadChild("FactsTable")
		if err != nil {
			return err
		}
		if err := db.Tables[i].FromNode(t, child, h); err != nil {
			return err
		}
	}
	return r.ExpectEnd()
}

func (db *FactsDB) ToNode(h csav.Header) (*nodetree.Tree, error) {
	if len(db.Tables) > MaxFactsTables {
		return nil, common.Encodef("FactsDB with %d tables, at most %d are supported", len(db.Tables), MaxFactsTables)
	}
	w := nodetree.NewWriter()
	w.PutPackedInt(int64(len(db.Tables)))
	for i := range db.Tables {
		sub, err := db.Tables[i].ToNode(h)
		if err != nil {
			return nil, err
		}
		if err := w.WriteChild(sub); err != nil {
			return nil, err
		}
	}
	return w.Finalize(db.NodeName()), nil
}

// Count returns the number of facts in all tables.
func (db *FactsDB) Count() int {
	n := 0
	for _, t := range db.Tables {
		n += len(t.Facts)
	}
	return n
}
