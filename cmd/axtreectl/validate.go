package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/batch"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <batch-file>...",
		Short: "Check that every batch would apply cleanly",
		Long: `The validate command checks each batch against the tree built by the
batches before it. Valid batches are applied so later batches see their
effect; malformed batches are reported and skipped.

Example:
  axtreectl validate snapshot.json updates.json
  axtreectl validate updates.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args)
		},
	}
	return cmd
}

// validateEntry is the JSON output for one batch.
type validateEntry struct {
	File    string          `json:"file"`
	Index   int             `json:"index"`
	Valid   bool            `json:"valid"`
	Reason  string          `json:"reason,omitempty"`
	Error   string          `json:"error,omitempty"`
	Summary batch.Stat      `json:"summary"`
	Effect  *axtree.Applied `json:"effect,omitempty"`
}

func runValidate(ctx context.Context, args []string) error {
	batches, err := decodeFiles(ctx, args)
	if err != nil {
		return err
	}
	opts, err := treeOptions(nil)
	if err != nil {
		return err
	}
	tree := axtree.New(opts)

	entries := make([]validateEntry, 0, len(batches))
	invalid := 0
	for _, lb := range batches {
		e := validateEntry{File: lb.File, Index: lb.Index, Summary: batch.Summarize(lb.Batch)}
		effect, err := tree.CheckUpdate(lb.Batch)
		if err != nil {
			invalid++
			e.Error = err.Error()
			var ue *axtree.UpdateError
			if errors.As(err, &ue) {
				e.Reason = ue.Reason.String()
			}
		} else {
			if _, err := tree.ApplyUpdate(lb.Batch); err != nil {
				return fmt.Errorf("%s: apply after successful check: %w", lb, err)
			}
			e.Valid = true
			e.Effect = &effect
		}
		entries = append(entries, e)

		if jsonOut {
			continue
		}
		if e.Valid {
			printInfo("%s: ok (%d records, root %s)\n", lb, e.Summary.Records, e.Summary.Root)
			printVerbose("  would create %d, update %d, destroy %d, reparent %d\n",
				effect.Created, effect.Updated, effect.Destroyed, effect.Reparented)
		} else {
			printInfo("%s: INVALID: %s\n", lb, e.Error)
		}
	}

	if jsonOut {
		if err := printJSON(entries); err != nil {
			return err
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d batches are malformed", invalid, len(batches))
	}
	printVerbose("All %d batches valid\n", len(batches))
	return nil
}
