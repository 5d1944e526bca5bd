package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/batch"
)

var (
	diffOut    string
	diffFormat string
	diffCheck  bool
)

func init() {
	cmd := newDiffCmd()
	cmd.Flags().StringVarP(&diffOut, "out", "o", "", "Write the incremental batch to this file instead of stdout")
	cmd.Flags().StringVar(&diffFormat, "out-format", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&diffCheck, "check", false, "Apply the result to a copy of the tree and confirm it reaches the target")
	rootCmd.AddCommand(cmd)
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <target-snapshot> <batch-file>...",
		Short: "Compute the incremental batch that turns a tree into a target snapshot",
		Long: `The diff command applies the batch files to build the current tree, reads
a full snapshot of the desired tree, and prints the smallest batch that
transforms the current tree into the target: a record for every node that
is new or whose payload or child list changed.

Example:
  axtreectl diff target.json snapshot.json updates.json
  axtreectl diff target.yaml snapshot.json --out-format yaml --check`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), args)
		},
	}
	return cmd
}

func runDiff(ctx context.Context, args []string) error {
	targetPath := args[0]
	outOpts := batch.DefaultOptions()
	format, err := batch.ParseFormat(diffFormat)
	if err != nil {
		return err
	}
	outOpts.Format = format
	outOpts.Indent = "  "

	inOpts, err := batchOptions()
	if err != nil {
		return err
	}
	targets, err := batch.ReadFile(targetPath, inOpts)
	if err != nil {
		return err
	}
	if len(targets) != 1 {
		return fmt.Errorf("%s: expected one snapshot document, found %d", targetPath, len(targets))
	}
	target := targets[0]

	tree, err := buildTree(ctx, args[1:], nil)
	if err != nil {
		return err
	}

	delta, err := axtree.Diff(tree, target)
	if err != nil {
		return fmt.Errorf("diff against %s: %w", targetPath, err)
	}
	printVerbose("Target has %d records; incremental batch has %d\n", target.Size(), delta.Size())

	if diffCheck {
		if err := checkDiff(tree, delta, target); err != nil {
			return err
		}
		printVerbose("Check passed: result reaches the target\n")
	}

	if diffOut != "" {
		if err := batch.WriteFile(diffOut, outOpts, delta); err != nil {
			return fmt.Errorf("write %s: %w", diffOut, err)
		}
		printInfo("Wrote %d records to %s\n", delta.Size(), diffOut)
		return nil
	}
	return batch.Encode(os.Stdout, outOpts, delta)
}

// checkDiff applies delta to a copy of tree and confirms that nothing is
// left to change.
func checkDiff(tree *axtree.Tree, delta, target *axtree.Batch) error {
	scratch := axtree.New(tree.Options())
	if tree.Len() > 0 {
		if _, err := scratch.ApplyUpdate(tree.Snapshot()); err != nil {
			return fmt.Errorf("check: copy tree: %w", err)
		}
	}
	if _, err := scratch.ApplyUpdate(delta); err != nil {
		return fmt.Errorf("check: apply incremental batch: %w", err)
	}
	rest, err := axtree.Diff(scratch, target)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if rest.Size() != 0 {
		return fmt.Errorf("check: %d records still differ after applying the incremental batch", rest.Size())
	}
	return nil
}
