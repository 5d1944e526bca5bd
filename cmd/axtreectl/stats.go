package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/metrics"
	"github.com/joshuapare/axtree/pkg/session"
)

var statsMetrics bool

func init() {
	cmd := newStatsCmd()
	cmd.Flags().BoolVar(&statsMetrics, "metrics", false, "Include the collected Prometheus metrics")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <batch-file>...",
		Short: "Show tree shape and update statistics",
		Long: `The stats command replays the batches, reporting rejected ones instead of
stopping, and prints the shape of the resulting tree along with update counters.

Example:
  axtreectl stats snapshot.json updates.json
  axtreectl stats updates.json --metrics --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args)
		},
	}
	return cmd
}

// treeShape summarises the structure of a tree.
type treeShape struct {
	Nodes       int    `json:"nodes"`
	Generation  uint64 `json:"generation"`
	Leaves      int    `json:"leaves"`
	MaxDepth    int    `json:"max_depth"`
	MaxChildren int    `json:"max_children"`
	DataBytes   int    `json:"data_bytes"`
}

// metricSample is one gathered metric value.
type metricSample struct {
	Name   string            `json:"name"`
	Type   string            `json:"type"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
	Count  uint64            `json:"count,omitempty"`
}

type statsOutput struct {
	Tree    treeShape      `json:"tree"`
	Batches int            `json:"batches"`
	Applied int            `json:"applied"`
	Reject  int            `json:"rejected"`
	Totals  axtree.Applied `json:"totals"`
	Metrics []metricSample `json:"metrics,omitempty"`
}

func runStats(ctx context.Context, args []string) error {
	batches, err := decodeFiles(ctx, args)
	if err != nil {
		return err
	}

	collector := metrics.New(metrics.DefaultOptions())
	opts, err := treeOptions(collector)
	if err != nil {
		return err
	}
	tree := axtree.New(opts)

	sess, _, err := replay(ctx, tree, batches, replayOptions{
		KeepGoing: true,
		Session:   session.Options{ResyncAfter: 0},
	})
	if err != nil {
		return err
	}
	st := sess.Stats()

	out := statsOutput{
		Tree:    measure(tree),
		Batches: len(batches),
		Applied: st.Applied,
		Reject:  st.Rejected,
		Totals:  st.Totals,
	}
	if statsMetrics {
		families, err := collector.Registry().Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		out.Metrics = flattenMetrics(families)
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("Tree\n")
	printInfo("  nodes:        %d\n", out.Tree.Nodes)
	printInfo("  generation:   %d\n", out.Tree.Generation)
	printInfo("  leaves:       %d\n", out.Tree.Leaves)
	printInfo("  max depth:    %d\n", out.Tree.MaxDepth)
	printInfo("  max children: %d\n", out.Tree.MaxChildren)
	printInfo("  data bytes:   %d\n", out.Tree.DataBytes)
	printInfo("Batches\n")
	printInfo("  total:    %d\n", out.Batches)
	printInfo("  applied:  %d\n", out.Applied)
	printInfo("  rejected: %d\n", out.Reject)
	printInfo("  created=%d updated=%d destroyed=%d reparented=%d\n",
		out.Totals.Created, out.Totals.Updated, out.Totals.Destroyed, out.Totals.Reparented)
	if len(out.Metrics) > 0 {
		printInfo("Metrics\n")
		for _, m := range out.Metrics {
			printInfo("  %s\n", formatSample(m))
		}
	}
	return nil
}

func measure(tree *axtree.Tree) treeShape {
	shape := treeShape{}
	tree.Read(func(v axtree.View) {
		shape.Nodes = v.Len()
		shape.Generation = v.Generation()
		_ = v.Walk(func(n *axtree.Node, depth int) error {
			if n.ChildCount() == 0 {
				shape.Leaves++
			}
			shape.MaxDepth = max(shape.MaxDepth, depth)
			shape.MaxChildren = max(shape.MaxChildren, n.ChildCount())
			shape.DataBytes += len(n.Data())
			return nil
		})
	})
	return shape
}

// flattenMetrics turns gathered families into one sample per series.
// Histograms report their sample count and sum.
func flattenMetrics(families []*dto.MetricFamily) []metricSample {
	var out []metricSample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			s := metricSample{Name: mf.GetName(), Type: strings.ToLower(mf.GetType().String())}
			if len(m.GetLabel()) > 0 {
				s.Labels = make(map[string]string, len(m.GetLabel()))
				for _, lp := range m.GetLabel() {
					s.Labels[lp.GetName()] = lp.GetValue()
				}
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				s.Value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				s.Value = m.GetHistogram().GetSampleSum()
				s.Count = m.GetHistogram().GetSampleCount()
			default:
				continue
			}
			out = append(out, s)
		}
	}
	return out
}

func formatSample(s metricSample) string {
	var b strings.Builder
	b.WriteString(s.Name)
	if len(s.Labels) > 0 {
		keys := make([]string, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("{")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s=%q", k, s.Labels[k])
		}
		b.WriteString("}")
	}
	if s.Type == "histogram" {
		fmt.Fprintf(&b, " count=%d sum=%g", s.Count, s.Value)
	} else {
		fmt.Fprintf(&b, " %g", s.Value)
	}
	return b.String()
}
