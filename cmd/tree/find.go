package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var findCmd = &cobra.Command{
	Use:   "find [file] [name]",
	Short: "List the nodes matching a name or an expression",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := util.GetConfig()
		if err != nil {
			return err
		}

		where := viper.GetString("where")
		if len(args) == 2 {
			if where != "" {
				where = fmt.Sprintf("(%s) && name == %q", where, args[1])
			} else {
				where = fmt.Sprintf("name == %q", args[1])
			}
		}
		if where == "" {
			return fmt.Errorf("either a name or --where is required")
		}
		program, err := compileFilter(where)
		if err != nil {
			return err
		}

		_, t, err := util.LoadTree(args[0], conf)
		if err != nil {
			return err
		}
		n, err := find(cmd.OutOrStdout(), t, program, util.NewColors(util.UseColor(cmd.OutOrStdout(), conf)))
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("no matching node")
		}
		return nil
	},
}

// nodeEnv is the environment --where expressions are evaluated in
type nodeEnv struct {
	Name     string `expr:"name"`
	Index    int    `expr:"index"`
	Size     int    `expr:"size"`
	DataSize int    `expr:"dataSize"`
	Depth    int    `expr:"depth"`
	Blob     bool   `expr:"blob"`
	Children int    `expr:"children"`
	Path     string `expr:"path"`
}

func compileFilter(where string) (*vm.Program, error) {
	program, err := expr.Compile(where, expr.Env(nodeEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return program, nil
}

// find prints every node accepted by program and returns their number
func find(w io.Writer, t *nodetree.Tree, program *vm.Program, c *util.Colors) (int, error) {
	var (
		path    []string
		matches int
		runErr  error
	)

	var visit func(id nodetree.NodeID, depth int)
	visit = func(id nodetree.NodeID, depth int) {
		if runErr != nil {
			return
		}
		n := t.Node(id)
		path = append(path[:depth], n.Name)

		env := nodeEnv{
			Name:     n.Name,
			Index:    int(n.Index),
			Size:     t.SubtreeSize(id),
			DataSize: len(n.Data),
			Depth:    depth,
			Blob:     n.IsBlob(),
			Children: len(n.Children),
			Path:     strings.Join(path, "/"),
		}
		out, err := expr.Run(program, env)
		if err != nil {
			runErr = err
			return
		}
		if ok, _ := out.(bool); ok {
			matches++
			fmt.Fprintf(w, "%s %s %s\n", c.Name("%s", env.Path), c.Dim("#%d", env.Index), c.Dim("(%d bytes)", env.Size))
		}

		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	visit(t.Root(), 0)

	return matches, runErr
}
