package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateCommand(t *testing.T) {
	resetFlags()
	snap := writeBatchFile(t, "snap.json", snapshotJSON)
	bad := writeBatchFile(t, "bad.json", badJSON)
	update := writeBatchFile(t, "update.json", updateJSON)

	output, err := captureOutput(t, func() error {
		return runValidate(context.Background(), []string{snap, bad, update})
	})
	require.ErrorContains(t, err, "1 of 3 batches are malformed")
	assertContains(t, output, []string{
		"snap.json#1: ok (4 records, root #1)",
		"bad.json#1: INVALID: malformed update: child #99 of #1",
		"update.json#1: ok (1 records, root #1)",
	})
}

func TestValidateCommand_AllValid(t *testing.T) {
	resetFlags()
	verbose = true
	snap := writeBatchFile(t, "snap.json", snapshotJSON)
	update := writeBatchFile(t, "update.json", updateJSON)

	output, err := captureOutput(t, func() error {
		return runValidate(context.Background(), []string{snap, update})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{"would create 0, update 1, destroy 2, reparent 0", "All 2 batches valid"})
}

func TestValidateCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	bad := writeBatchFile(t, "bad.json", badJSON)

	output, err := captureOutput(t, func() error {
		return runValidate(context.Background(), []string{bad})
	})
	require.Error(t, err)

	var entries []struct {
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Len(t, entries, 1)
	require.False(t, entries[0].Valid)
	require.Equal(t, "UnresolvedChild", entries[0].Reason)
}
