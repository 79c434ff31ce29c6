package tree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/csav/cnodes"
	"github.com/ValentinKolb/csav/lib/nodetree"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check that the save and its typed nodes re-encode byte for byte",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := util.GetConfig()
		if err != nil {
			return err
		}
		f, t, err := util.LoadTree(args[0], conf)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		if err := verifyTree(out, f, t); err != nil {
			fmt.Fprintf(out, "tree: %v\n", err)
			failed++
		} else {
			fmt.Fprintf(out, "tree: ok (%d nodes)\n", len(f.Table))
		}

		for _, r := range verifyNodes(t, f.Header) {
			if r.Err != nil {
				fmt.Fprintf(out, "%s #%d: %v\n", r.Name, r.Index, r.Err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d checks failed", failed)
		}
		fmt.Fprintln(out, "typed nodes: ok")
		return nil
	},
}

// verifyTree re-encodes t and compares it with the container it came from.
// On mismatch a diff of both tree dumps is written to w.
func verifyTree(w io.Writer, f *csav.File, t *nodetree.Tree) error {
	again, err := csav.FromTree(f.Header, t)
	if err != nil {
		return err
	}
	if bytes.Equal(again.Data, f.Data) && len(again.Table) == len(f.Table) {
		same := true
		for i := range f.Table {
			if again.Table[i] != f.Table[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	other, err := again.Tree()
	if err != nil {
		return fmt.Errorf("re-encoded tree does not decode: %w", err)
	}
	writeDiff(w, dumpString(t), dumpString(other))
	return fmt.Errorf("re-encoded container differs (%d -> %d data bytes)", len(f.Data), len(again.Data))
}

func dumpString(t *nodetree.Tree) string {
	var sb strings.Builder
	writeText(&sb, t, t.Root(), dumpOptions{DataBytes: 16}, util.NewColors(false), 0)
	return sb.String()
}

// writeDiff writes a line diff of a and b
func writeDiff(w io.Writer, a, b string) {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		case diffpatch.DiffEqual:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				fmt.Fprint(w, prefix+line)
			}
		}
	}
}

type nodeResult struct {
	Name  string
	Index int32
	Err   error
}

// typedNodes lists the node types with a typed decoder
var typedNodes = []func() cnodes.NodeSerializable{
	func() cnodes.NodeSerializable { return &cnodes.ItemData{} },
	func() cnodes.NodeSerializable { return &cnodes.FactsDB{} },
}

// verifyNodes decodes every typed node and checks that encoding it again
// reproduces the original subtree.
func verifyNodes(t *nodetree.Tree, h csav.Header) []nodeResult {
	var results []nodeResult
	for _, mk := range typedNodes {
		name := mk().NodeName()
		for _, id := range cnodes.FindAll(t, name) {
			r := nodeResult{Name: name, Index: t.Node(id).Index}
			r.Err = verifyNode(t, id, mk(), h)
			results = append(results, r)
		}
	}
	return results
}

func verifyNode(t *nodetree.Tree, id nodetree.NodeID, v cnodes.NodeSerializable, h csav.Header) error {
	if err := cnodes.Decode(v, t, id, h); err != nil {
		return err
	}
	node, err := v.ToNode(h)
	if err != nil {
		return err
	}
	_, want, err := nodetree.Encode(t.Subtree(id))
	if err != nil {
		return err
	}
	_, got, err := nodetree.Encode(node)
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		return fmt.Errorf("re-encoded to %d bytes, original has %d", len(got), len(want))
	}
	return nil
}
