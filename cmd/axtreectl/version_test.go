package main

import (
	"testing"
)

func TestVersionCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	assertContains(t, output, []string{"axtreectl dev", "commit: none"})

	jsonOut = true
	output, _ = captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	assertJSON(t, output)
}
