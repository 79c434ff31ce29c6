package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/csav/cnodes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// FactsCmd prints the quest facts database
	FactsCmd = &cobra.Command{
		Use:   "facts [file]",
		Short: "Print the quest facts of a save",
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
			id, ok := t.Find("FactsDB")
			if !ok {
				return fmt.Errorf("save has no FactsDB node")
			}
			var db cnodes.FactsDB
			if err := cnodes.Decode(&db, t, id, f.Header); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if h := viper.GetString("hash"); h != "" {
				return lookupFact(out, &db, h)
			}
			if conf.Format == "yaml" {
				return util.EmitYAML(out, factsView(&db))
			}
			writeFacts(out, &db, util.NewColors(util.UseColor(out, conf)))
			return nil
		},
	}
)

func init() {
	key := "hash"
	FactsCmd.Flags().String(key, "", util.WrapString("Only print the value of the fact with this hash (decimal or 0x hex)"))
}

type factView struct {
	Hash  string `yaml:"hash"`
	Value uint32 `yaml:"value"`
}

func factsView(db *cnodes.FactsDB) [][]factView {
	tables := make([][]factView, len(db.Tables))
	for i, tbl := range db.Tables {
		for _, f := range tbl.Facts {
			tables[i] = append(tables[i], factView{Hash: fmt.Sprintf("%08x", f.Hash), Value: f.Value})
		}
	}
	return tables
}

func lookupFact(w io.Writer, db *cnodes.FactsDB, hash string) error {
	h, err := strconv.ParseUint(hash, 0, 32)
	if err != nil {
		return fmt.Errorf("invalid hash %s: %w", hash, err)
	}
	for i := range db.Tables {
		if v, ok := db.Tables[i].Lookup(uint32(h)); ok {
			fmt.Fprintf(w, "%d\n", v)
			return nil
		}
	}
	return fmt.Errorf("fact %08x not found", h)
}

func writeFacts(w io.Writer, db *cnodes.FactsDB, c *util.Colors) {
	for i, tbl := range db.Tables {
		fmt.Fprintln(w, c.Name("table %d (%d facts)", i, len(tbl.Facts)))
		for _, f := range tbl.Facts {
			fmt.Fprintf(w, "  %s = %s\n", c.Dim("%08x", f.Hash), c.Value("%d", f.Value))
		}
	}
	fmt.Fprintf(w, "%d facts\n", db.Count())
}
