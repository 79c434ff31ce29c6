package tree

import (
	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/spf13/cobra"
)

var (
	// TreeCommands represents the node tree command group
	TreeCommands = &cobra.Command{
		Use:   "tree",
		Short: "Inspect the node tree of a save",
	}
)

func init() {
	key := "node"
	dumpCmd.Flags().String(key, "", util.WrapString("Only dump the subtree of the first node with this name"))
	key = "data"
	dumpCmd.Flags().Int(key, 0, util.WrapString("Print up to this many data bytes of every node as hex"))
	key = "depth"
	dumpCmd.Flags().Int(key, 0, util.WrapString("Stop the dump at this depth (0 = no limit)"))

	key = "where"
	findCmd.Flags().String(key, "", util.WrapString("Expression selecting nodes, e.g. 'name == \"itemData\" && size > 64'. Available: name, index, size, dataSize, depth, blob, children, path"))

	key = "top"
	statsCmd.Flags().Int(key, 10, util.WrapString("Number of node names listed by total size"))

	TreeCommands.AddCommand(dumpCmd)
	TreeCommands.AddCommand(findCmd)
	TreeCommands.AddCommand(statsCmd)
	TreeCommands.AddCommand(verifyCmd)
}
