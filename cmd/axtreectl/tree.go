package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/printer"
	"github.com/joshuapare/axtree/pkg/types"
)

var (
	treeDepth     int
	treeData      bool
	treeMetadata  bool
	treeFrom      string
	treeDataBytes int
	treeCompact   bool
)

func init() {
	cmd := newTreeCmd()
	cmd.Flags().IntVar(&treeDepth, "depth", 0, "Maximum depth (0 = unlimited)")
	cmd.Flags().BoolVar(&treeData, "data", true, "Show node payloads")
	cmd.Flags().BoolVar(&treeMetadata, "metadata", false, "Show parent, index, child count and generation")
	cmd.Flags().StringVar(&treeFrom, "from", "", "Print only the subtree rooted at this node id")
	cmd.Flags().IntVar(&treeDataBytes, "max-data-bytes", printer.DefaultMaxDataBytes, "Payload bytes to show (0 = all)")
	cmd.Flags().BoolVar(&treeCompact, "compact", false, "Compact output")
	rootCmd.AddCommand(cmd)
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <batch-file>...",
		Short: "Display the tree built by the batches",
		Long: `The tree command applies the batches and displays the resulting tree.

Example:
  axtreectl tree snapshot.json updates.json
  axtreectl tree snapshot.json --from 12 --depth 2
  axtreectl tree snapshot.json --metadata --data=false`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), args)
		},
	}
	return cmd
}

func runTree(ctx context.Context, args []string) error {
	from := types.NoNode
	if treeFrom != "" {
		id, err := parseNodeID(treeFrom)
		if err != nil {
			return err
		}
		from = id
	}

	tree, err := buildTree(ctx, args, nil)
	if err != nil {
		return err
	}

	// Configure printer options
	opts := printer.DefaultOptions()
	opts.MaxDepth = treeDepth
	opts.ShowData = treeData
	opts.PrintMetadata = treeMetadata
	opts.MaxDataBytes = treeDataBytes
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if treeCompact {
		opts.IndentSize = 1
	}

	tree.Read(func(v axtree.View) {
		err = printer.New(v, os.Stdout, opts).PrintTree(from)
	})
	if err != nil {
		return fmt.Errorf("failed to display tree: %w", err)
	}
	return nil
}

// parseNodeID accepts "12" or "#12".
func parseNodeID(s string) (types.NodeID, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return types.NoNode, fmt.Errorf("invalid node id %q", s)
	}
	return types.NodeID(n), nil
}
