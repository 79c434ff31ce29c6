package inspect

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/csav/cnodes"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/ValentinKolb/csav/lib/object"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// ObjectCmd decodes the object records stored in nodes
	ObjectCmd = &cobra.Command{
		Use:   "object [file]",
		Short: "Decode the object record stored in a node",
		Long: `Decode the object record stored in the data of every node with the given
name. Field names and types are resolved through the name pool of the save,
the field schema comes from the blueprint file.`,
		Args: cobra.ExactArgs(1),
		RunE: runObject,
	}
)

func init() {
	key := "node"
	ObjectCmd.Flags().String(key, "", util.WrapString("Name of the nodes holding the object"))
	key = "class"
	ObjectCmd.Flags().String(key, "", util.WrapString("Class of the object (defaults to the node name)"))
	key = "verify"
	ObjectCmd.Flags().Bool(key, false, util.WrapString("Re-encode every object and compare it with the stored bytes"))
	_ = ObjectCmd.MarkFlagRequired("node")
}

// fieldView is the printable form of a field
type fieldView struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
	Raw   bool   `yaml:"raw,omitempty"`
}

type objectView struct {
	Node   string      `yaml:"node"`
	Index  int32       `yaml:"index"`
	Class  string      `yaml:"class"`
	Size   int         `yaml:"size"`
	Fields []fieldView `yaml:"fields"`
}

func runObject(cmd *cobra.Command, args []string) error {
	conf, err := util.GetConfig()
	if err != nil {
		return err
	}
	_, t, err := util.LoadTree(args[0], conf)
	if err != nil {
		return err
	}
	ctx, err := util.NewObjectContext(t, conf)
	if err != nil {
		return err
	}

	nodeName := viper.GetString("node")
	class := viper.GetString("class")
	if class == "" {
		class = nodeName
	}

	var views []objectView
	for _, id := range cnodes.FindAll(t, nodeName) {
		v, err := decodeObject(t, id, class, ctx, viper.GetBool("verify"))
		if err != nil {
			return fmt.Errorf("node %s #%d: %w", nodeName, t.Node(id).Index, err)
		}
		views = append(views, v)
	}
	if len(views) == 0 {
		return fmt.Errorf("no node named %s", nodeName)
	}

	out := cmd.OutOrStdout()
	if conf.Format == "yaml" {
		return util.EmitYAML(out, views)
	}
	writeObjects(out, views, util.NewColors(util.UseColor(out, conf)))
	return nil
}

// decodeObject decodes the object stored in the data of node id
func decodeObject(t *nodetree.Tree, id nodetree.NodeID, class string, ctx *object.Context, verify bool) (objectView, error) {
	data := nodetree.NewReader(t, id).Rest()
	obj := object.New(class, ctx)
	if err := obj.DecodeBlob(data, ctx); err != nil {
		return objectView{}, err
	}

	if verify {
		again, err := obj.Encode(nil, ctx)
		if err != nil {
			return objectView{}, err
		}
		if string(again) != string(data) {
			return objectView{}, fmt.Errorf("re-encoded object differs (%d -> %d bytes)", len(data), len(again))
		}
	}

	n := t.Node(id)
	v := objectView{Node: n.Name, Index: n.Index, Class: obj.ClassName(), Size: len(data)}
	for _, f := range obj.Fields() {
		if f.Prop.IsSkippable() {
			continue
		}
		v.Fields = append(v.Fields, viewField(f))
	}
	return v, nil
}

func viewField(f object.Field) fieldView {
	fv := fieldView{Name: f.Name, Type: f.Prop.TypeName()}
	switch p := f.Prop.(type) {
	case *object.Blob:
		fv.Raw = true
		fv.Value = hex.EncodeToString(p.Data)
	case fmt.Stringer:
		fv.Value = p.String()
	default:
		fv.Value = fmt.Sprintf("%T", p)
	}
	return fv
}

func writeObjects(w io.Writer, views []objectView, c *util.Colors) {
	for _, v := range views {
		fmt.Fprintf(w, "%s %s %s\n", c.Name("%s", v.Class), c.Dim("#%d", v.Index), c.Dim("(%d bytes)", v.Size))
		for _, f := range v.Fields {
			value := c.Value("%s", f.Value)
			if f.Raw {
				value = c.Blob("raw %s", f.Value)
			}
			fmt.Fprintf(w, "  %-24s %-16s %s\n", f.Name, c.Dim("%s", f.Type), value)
		}
	}
}
