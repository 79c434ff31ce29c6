package tree

import (
	"fmt"
	"io"
	"sort"

	"github.com/ValentinKolb/csav/cmd/util"
	"github.com/ValentinKolb/csav/lib/nodetree"
	libutil "github.com/ValentinKolb/csav/lib/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Print size statistics of the node tree",
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

		s := collectStats(t, viper.GetInt("top"))
		out := cmd.OutOrStdout()
		if conf.Format == "yaml" {
			return util.EmitYAML(out, s)
		}
		fmt.Fprintf(out, "game version %d, %s\n", f.Header.GameVersion, f.Header.Label)
		writeStats(out, s)
		return nil
	},
}

type nameStat struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
	Bytes int    `yaml:"bytes"`
}

type bucketStat struct {
	Label   string  `yaml:"label"`
	Percent float64 `yaml:"percent"`
}

type treeStats struct {
	Nodes     int           `yaml:"nodes"`
	Blobs     int           `yaml:"blobs"`
	BlobBytes int           `yaml:"blobBytes"`
	MaxDepth  int           `yaml:"maxDepth"`
	Bytes     int           `yaml:"bytes"`
	P50       float64       `yaml:"p50"`
	P90       float64       `yaml:"p90"`
	P99       float64       `yaml:"p99"`
	Leaves    libutil.Stats `yaml:"leaves"`
	Buckets   []bucketStat  `yaml:"buckets"`
	Top       []nameStat    `yaml:"top"`
}

// collectStats walks the tree once. Sizes are subtree sizes, headers included.
func collectStats(t *nodetree.Tree, top int) *treeStats {
	s := &treeStats{Bytes: t.SubtreeSize(t.Root())}
	hist := libutil.NewSizeHistogram()
	byName := make(map[string]*nameStat)
	var leafSizes []float64

	t.Walk(func(id nodetree.NodeID, depth int) bool {
		n := t.Node(id)
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		if n.IsBlob() {
			s.Blobs++
			s.BlobBytes += len(n.Data)
			return true
		}

		size := t.SubtreeSize(id)
		s.Nodes++
		hist.AddSample(size)
		if len(n.Children) == 0 {
			leafSizes = append(leafSizes, float64(size))
		}

		ns, ok := byName[n.Name]
		if !ok {
			ns = &nameStat{Name: n.Name}
			byName[n.Name] = ns
		}
		ns.Count++
		ns.Bytes += size
		return true
	})

	s.P50, s.P90, s.P99 = hist.Percentile(50), hist.Percentile(90), hist.Percentile(99)
	s.Leaves = libutil.NewStats(leafSizes)

	boundaries, pct := hist.SizeDistribution()
	for i, p := range pct {
		if p == 0 {
			continue
		}
		label := fmt.Sprintf("> %d", boundaries[len(boundaries)-1])
		if i < len(boundaries) {
			label = fmt.Sprintf("<= %d", boundaries[i])
		}
		s.Buckets = append(s.Buckets, bucketStat{Label: label, Percent: p})
	}

	for _, ns := range byName {
		s.Top = append(s.Top, *ns)
	}
	sort.Slice(s.Top, func(i, j int) bool {
		if s.Top[i].Bytes != s.Top[j].Bytes {
			return s.Top[i].Bytes > s.Top[j].Bytes
		}
		return s.Top[i].Name < s.Top[j].Name
	})
	if top >= 0 && len(s.Top) > top {
		s.Top = s.Top[:top]
	}
	return s
}

func writeStats(w io.Writer, s *treeStats) {
	fmt.Fprintf(w, "nodes:      %d (max depth %d)\n", s.Nodes, s.MaxDepth)
	fmt.Fprintf(w, "data blobs: %d (%d bytes)\n", s.Blobs, s.BlobBytes)
	fmt.Fprintf(w, "total:      %d bytes\n", s.Bytes)
	fmt.Fprintf(w, "node size:  p50 %.0f, p90 %.0f, p99 %.0f\n", s.P50, s.P90, s.P99)
	fmt.Fprintf(w, "leaf size:  min %.0f, max %.0f, mean %.1f, stddev %.1f\n", s.Leaves.Min, s.Leaves.Max, s.Leaves.Mean, s.Leaves.StdDeviation)

	fmt.Fprintln(w, "size distribution:")
	for _, b := range s.Buckets {
		fmt.Fprintf(w, "  %-12s %6.2f%%\n", b.Label, b.Percent)
	}

	fmt.Fprintln(w, "largest node names:")
	for _, ns := range s.Top {
		fmt.Fprintf(w, "  %-32s %6d nodes %10d bytes\n", ns.Name, ns.Count, ns.Bytes)
	}
}
