package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/batch"
	"github.com/joshuapare/axtree/pkg/printer"
	"github.com/joshuapare/axtree/pkg/session"
)

var (
	applyOut         string
	applyVerify      bool
	applyPrint       bool
	applyKeepGoing   bool
	applyResyncAfter int
	applyClearResync bool
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().StringVarP(&applyOut, "out", "o", "", "Write a full snapshot of the final tree to this file")
	cmd.Flags().BoolVar(&applyVerify, "verify", false, "Check tree invariants after every batch")
	cmd.Flags().BoolVar(&applyPrint, "print", false, "Print the final tree")
	cmd.Flags().BoolVar(&applyKeepGoing, "keep-going", false, "Report rejected batches and continue")
	cmd.Flags().IntVar(&applyResyncAfter, "resync-after", 1, "Request a resync after this many consecutive rejections (0 disables)")
	cmd.Flags().BoolVar(&applyClearResync, "clear-on-resync", false, "Empty the tree when a resync is requested")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <batch-file>...",
		Short: "Apply update batches to a new tree",
		Long: `The apply command decodes every batch file, then applies the batches in
order (files in argument order, documents in file order) to an empty tree.

Example:
  axtreectl apply snapshot.json updates.yaml
  axtreectl apply snapshot.json updates.json --keep-going --clear-on-resync
  axtreectl apply updates.json --out final.json --verify`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), args)
		},
	}
	return cmd
}

// applySummary is the JSON output of the apply command.
type applySummary struct {
	Batches    []batchResult  `json:"batches"`
	Nodes      int            `json:"nodes"`
	Generation uint64         `json:"generation"`
	Totals     axtree.Applied `json:"totals"`
	Rejected   int            `json:"rejected"`
	Resyncs    int            `json:"resyncs"`
	Snapshot   string         `json:"snapshot,omitempty"`
}

func runApply(ctx context.Context, args []string) error {
	batches, err := decodeFiles(ctx, args)
	if err != nil {
		return err
	}
	printVerbose("Decoded %d batches from %d files\n", len(batches), len(args))

	opts, err := treeOptions(nil)
	if err != nil {
		return err
	}
	tree := axtree.New(opts)

	sess, results, err := replay(ctx, tree, batches, replayOptions{
		KeepGoing: applyKeepGoing,
		Verify:    applyVerify,
		Session: session.Options{
			ResyncAfter:   applyResyncAfter,
			ClearOnResync: applyClearResync,
			OnResync: func(cause error) {
				printInfo("Resync requested: %v\n", cause)
			},
		},
		OnResult: func(lb loadedBatch, r batchResult) {
			if jsonOut {
				return
			}
			if r.OK {
				printVerbose("%s: applied %d records (created=%d updated=%d destroyed=%d reparented=%d generation=%d)\n",
					lb, r.Records, r.Applied.Created, r.Applied.Updated, r.Applied.Destroyed,
					r.Applied.Reparented, r.Applied.Generation)
			} else {
				printInfo("%s: rejected: %s\n", lb, r.Error)
			}
		},
	})
	if err != nil {
		return err
	}

	if applyOut != "" {
		if err := batch.WriteFile(applyOut, batch.DefaultOptions(), tree.Snapshot()); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		printVerbose("Wrote snapshot to %s\n", applyOut)
	}

	stats := sess.Stats()
	if jsonOut {
		return printJSON(applySummary{
			Batches:    results,
			Nodes:      tree.Len(),
			Generation: tree.Generation(),
			Totals:     stats.Totals,
			Rejected:   stats.Rejected,
			Resyncs:    stats.Resyncs,
			Snapshot:   applyOut,
		})
	}

	printInfo("Applied %d of %d batches: %d nodes, generation %d\n",
		stats.Applied, len(batches), tree.Len(), tree.Generation())
	printInfo("  created=%d updated=%d destroyed=%d reparented=%d\n",
		stats.Totals.Created, stats.Totals.Updated, stats.Totals.Destroyed, stats.Totals.Reparented)
	if stats.Rejected > 0 {
		printInfo("  rejected=%d resyncs=%d\n", stats.Rejected, stats.Resyncs)
	}

	if applyPrint && !quiet {
		var perr error
		tree.Read(func(v axtree.View) {
			perr = printer.Print(os.Stdout, v, printer.DefaultOptions())
		})
		return perr
	}
	return nil
}
