package tree

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the node tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := util.GetConfig()
		if err != nil {
			return err
		}
		_, t, err := util.LoadTree(args[0], conf)
		if err != nil {
			return err
		}

		root := t.Root()
		if name := viper.GetString("node"); name != "" {
			id, ok := t.Find(name)
			if !ok {
				return fmt.Errorf("no node named %s", name)
			}
			root = id
		}
		opts := dumpOptions{DataBytes: viper.GetInt("data"), MaxDepth: viper.GetInt("depth")}

		out := cmd.OutOrStdout()
		if conf.Format == "yaml" {
			return util.EmitYAML(out, toDumpNode(t, root, opts, 0))
		}
		writeText(out, t, root, opts, util.NewColors(util.UseColor(out, conf)), 0)
		return nil
	},
}

type dumpOptions struct {
	DataBytes int // hex preview length, 0 = none
	MaxDepth  int // 0 = unlimited
}

// dumpNode is the YAML form of a node
type dumpNode struct {
	Name     string     `yaml:"name"`
	Index    *int32     `yaml:"index,omitempty"`
	Size     int        `yaml:"size"`
	DataSize int        `yaml:"dataSize"`
	Data     string     `yaml:"data,omitempty"`
	Children []dumpNode `yaml:"children,omitempty"`
}

func toDumpNode(t *nodetree.Tree, id nodetree.NodeID, opts dumpOptions, depth int) dumpNode {
	n := t.Node(id)
	d := dumpNode{
		Name:     n.Name,
		Size:     t.SubtreeSize(id),
		DataSize: len(n.Data),
		Data:     preview(n.Data, opts.DataBytes),
	}
	if !n.IsBlob() {
		idx := n.Index
		d.Index = &idx
	}
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return d
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, toDumpNode(t, c, opts, depth+1))
	}
	return d
}

func writeText(w io.Writer, t *nodetree.Tree, id nodetree.NodeID, opts dumpOptions, c *util.Colors, depth int) {
	n := t.Node(id)
	indent := strings.Repeat("  ", depth)

	if n.IsBlob() {
		fmt.Fprintf(w, "%s%s %s\n", indent, c.Blob("<%s>", n.Name), c.Dim("%d bytes", len(n.Data)))
	} else {
		fmt.Fprintf(w, "%s%s %s %s\n", indent, c.Name("%s", n.Name), c.Dim("#%d", n.Index), c.Dim("(%d bytes)", t.SubtreeSize(id)))
	}
	if p := preview(n.Data, opts.DataBytes); p != "" {
		fmt.Fprintf(w, "%s  %s\n", indent, c.Value("%s", p))
	}

	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return
	}
	for _, child := range n.Children {
		writeText(w, t, child, opts, c, depth+1)
	}
}

func preview(data []byte, max int) string {
	if max <= 0 || len(data) == 0 {
		return ""
	}
	if len(data) <= max {
		return hex.EncodeToString(data)
	}
	return hex.EncodeToString(data[:max]) + "..."
}
