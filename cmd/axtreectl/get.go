package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/printer"
	"github.com/joshuapare/axtree/pkg/types"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <node-id> <batch-file>...",
		Short: "Show one node of the tree built by the batches",
		Long: `The get command applies the batches and shows a single node: its payload,
its position under its parent, its children and the path from the root.

Example:
  axtreectl get 7 snapshot.json updates.json
  axtreectl get '#7' snapshot.json --json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args)
		},
	}
	return cmd
}

// nodeInfo is the JSON output of the get command.
type nodeInfo struct {
	ID         types.NodeID    `json:"id"`
	Parent     types.NodeID    `json:"parent,omitempty"`
	Index      int             `json:"index"`
	Path       []types.NodeID  `json:"path"`
	Children   []types.NodeID  `json:"children"`
	Generation uint64          `json:"generation"`
	Data       json.RawMessage `json:"data,omitempty"`
	DataB64    string          `json:"data_b64,omitempty"`
}

func runGet(ctx context.Context, args []string) error {
	id, err := parseNodeID(args[0])
	if err != nil {
		return err
	}
	tree, err := buildTree(ctx, args[1:], nil)
	if err != nil {
		return err
	}

	var (
		info  nodeInfo
		found bool
	)
	tree.Read(func(v axtree.View) {
		n, ok := v.Lookup(id)
		if !ok {
			return
		}
		found = true
		ancestors, _ := v.Ancestors(id)
		path := make([]types.NodeID, 0, len(ancestors)+1)
		for i := len(ancestors) - 1; i >= 0; i-- {
			path = append(path, ancestors[i])
		}
		info = nodeInfo{
			ID:         n.ID(),
			Parent:     n.ParentID(),
			Index:      n.IndexInParent(),
			Path:       append(path, n.ID()),
			Children:   n.ChildIDs(),
			Generation: n.Generation(),
		}
		if data := n.Data(); len(data) > 0 {
			if json.Valid(data) {
				info.Data = json.RawMessage(append([]byte(nil), data...))
			} else {
				info.DataB64 = base64.StdEncoding.EncodeToString(data)
			}
		}
		if !jsonOut {
			opts := printer.DefaultOptions()
			opts.PrintMetadata = true
			opts.MaxDataBytes = 0
			err = printer.New(v, os.Stdout, opts).PrintNode(id)
		}
	})
	if !found {
		return fmt.Errorf("node %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(info)
	}
	printInfo("  path: %v\n", info.Path)
	if len(info.Children) > 0 {
		printInfo("  children: %v\n", info.Children)
	}
	return nil
}
