package inspect

import (
	"fmt"
	"io"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/csav/cnodes"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/spf13/cobra"
)

var (
	// ItemsCmd lists the itemData nodes of a save
	ItemsCmd = &cobra.Command{
		Use:   "items [file]",
		Short: "List the inventory items of a save",
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
			items, err := listItems(t, f.Header)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if conf.Format == "yaml" {
				return util.EmitYAML(out, items)
			}
			writeItems(out, items, util.NewColors(util.UseColor(out, conf)))
			return nil
		},
	}
)

type itemView struct {
	Index    int32  `yaml:"index"`
	NameID   string `yaml:"nameId"`
	Kind     uint8  `yaml:"kind"`
	Flags    uint8  `yaml:"flags"`
	Quantity uint32 `yaml:"quantity"`
	Parts    int    `yaml:"parts"`
}

func listItems(t *nodetree.Tree, h csav.Header) ([]itemView, error) {
	var items []itemView
	for _, id := range cnodes.FindAll(t, "itemData") {
		var d cnodes.ItemData
		if err := cnodes.Decode(&d, t, id, h); err != nil {
			return nil, fmt.Errorf("node #%d: %w", t.Node(id).Index, err)
		}
		items = append(items, itemView{
			Index:    t.Node(id).Index,
			NameID:   fmt.Sprintf("%016x", d.ID.NameID),
			Kind:     d.Kind(),
			Flags:    d.Flags,
			Quantity: d.Quantity,
			Parts:    d.CountParts(),
		})
	}
	return items, nil
}

func writeItems(w io.Writer, items []itemView, c *util.Colors) {
	for _, it := range items {
		fmt.Fprintf(w, "%s %s kind %d  qty %-6d parts %-3d flags %02x\n",
			c.Dim("#%-6d", it.Index), c.Name("%s", it.NameID), it.Kind, it.Quantity, it.Parts, it.Flags)
	}
	fmt.Fprintf(w, "%d items\n", len(items))
}
