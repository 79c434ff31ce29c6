package csav

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/namepool"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/ValentinKolb/csav/lib/packing"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("csav")

const (
	// Magic opens every save container
	Magic = "CSAV"
	// NodeMagic opens the node data section
	NodeMagic = "NODE"
	// FormatVersion is the container version written by Save
	FormatVersion uint32 = 1
)

// Header is the container preamble.
type Header struct {
	FormatVersion uint32
	// GameVersion of the game that wrote the save, gates version dependent
	// layouts of typed nodes.
	GameVersion uint32
	Label       string
}

// File is a decoded container: header, descriptor table and the node data
// buffer the table points into.
type File struct {
	Header Header
	Table  []nodetree.Descriptor
	Data   []byte

	// MaxDepth bounds the nesting accepted by Tree (0 = default).
	MaxDepth int
}

// Read parses a container from r.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load parses the container stored at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	plog.Infof("loaded %s: %d nodes, %d data bytes, game version %d", path, len(f.Table), len(f.Data), f.Header.GameVersion)
	return f, nil
}

// Parse decodes a container held in memory. Data aliases buf.
func Parse(buf []byte) (*File, error) {
	r := packing.NewReader(buf)

	if err := expectMagic(r, Magic); err != nil {
		return nil, err
	}

	f := &File{}
	var err error
	if f.Header.FormatVersion, err = r.U32(); err != nil {
		return nil, common.WrapCorruption(err, "header")
	}
	if f.Header.FormatVersion > FormatVersion {
		return nil, common.NewError(common.ErrCInvalidOperation,
			fmt.Sprintf("unsupported container version %d", f.Header.FormatVersion))
	}
	if f.Header.GameVersion, err = r.U32(); err != nil {
		return nil, common.WrapCorruption(err, "header")
	}
	if f.Header.Label, err = r.PLString(); err != nil {
		return nil, common.WrapCorruption(err, "header label")
	}

	rows, err := r.U32()
	if err != nil {
		return nil, common.WrapCorruption(err, "descriptor count")
	}
	if uint64(rows) > math.MaxInt32 {
		return nil, common.Corruptionf("descriptor count %d", rows)
	}
	if f.Table, err = nodetree.ReadTable(r, int(rows)); err != nil {
		return nil, common.WrapCorruption(err, "descriptor table")
	}

	if err := expectMagic(r, NodeMagic); err != nil {
		return nil, err
	}
	size, err := r.U32()
	if err != nil {
		return nil, common.WrapCorruption(err, "node data size")
	}
	if f.Data, err = r.Bytes(int(size)); err != nil {
		return nil, common.WrapCorruption(err, "node data")
	}
	if !r.AtEnd() {
		return nil, common.Corruptionf("%d trailing bytes after node data", r.Remaining())
	}
	return f, nil
}

func expectMagic(r *packing.Reader, magic string) error {
	b, err := r.Bytes(len(magic))
	if err != nil {
		return common.WrapCorruption(err, "%s magic", magic)
	}
	if string(b) != magic {
		return common.Corruptionf("bad magic %q, expected %q", b, magic)
	}
	return nil
}

// Tree decodes the node tree. Row 0 is the root.
func (f *File) Tree() (*nodetree.Tree, error) {
	if len(f.Table) == 0 {
		return nil, common.Corruptionf("empty descriptor table")
	}
	return nodetree.DecodeWithOptions(f.Data, f.Table, 0, &nodetree.DecodeOptions{MaxDepth: f.MaxDepth})
}

// FromTree encodes t into a new container.
func FromTree(h Header, t *nodetree.Tree) (*File, error) {
	table, data, err := nodetree.Encode(t)
	if err != nil {
		return nil, err
	}
	if h.FormatVersion == 0 {
		h.FormatVersion = FormatVersion
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, common.Encodef("node data of %d bytes exceeds the container limit", len(data))
	}
	return &File{Header: h, Table: table, Data: data}, nil
}

// Bytes returns the serialized container.
func (f *File) Bytes() []byte {
	w := packing.NewWriter(make([]byte, 0, len(f.Data)+32*len(f.Table)+64))
	w.Write([]byte(Magic))
	w.PutU32(f.Header.FormatVersion)
	w.PutU32(f.Header.GameVersion)
	w.PutPLString(f.Header.Label)
	w.PutU32(uint32(len(f.Table)))
	nodetree.AppendTable(w, f.Table)
	w.Write([]byte(NodeMagic))
	w.PutU32(uint32(len(f.Data)))
	w.Write(f.Data)
	return w.Bytes()
}

// WriteTo writes the serialized container to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(f.Bytes()).WriteTo(w)
}

// Save writes the container to path, replacing the file atomically.
func (f *File) Save(path string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, f.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	plog.Infof("saved %s: %d nodes, %d data bytes", path, len(f.Table), len(f.Data))
	return nil
}

// LoadNames decodes the name pool stored as the data of the named node.
func LoadNames(t *nodetree.Tree, nodeName string) (*namepool.Pool, error) {
	id, ok := t.Find(nodeName)
	if !ok {
		return nil, common.NewError(common.ErrCInvalidOperation, fmt.Sprintf("no %s node", nodeName))
	}
	p, err := namepool.Unmarshal(nodetree.NewReader(t, id).Rest())
	if err != nil {
		return nil, common.WrapCorruption(err, "name pool in %s", nodeName)
	}
	return p, nil
}

// StoreNames replaces the data of the named node (adding it below the root if
// missing) with the serialized pool.
func StoreNames(t *nodetree.Tree, nodeName string, p *namepool.Pool) {
	id, ok := t.Find(nodeName)
	if !ok {
		id = t.AddChild(t.Root(), nodeName, nil)
	}
	n := t.Node(id)
	n.Children = nil
	n.Data = p.Marshal(nil)
}
