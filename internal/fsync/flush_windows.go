//go:build windows

package fsync

import (
	"os"

	"golang.org/x/sys/windows"
)

func flush(f *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}

// syncDir is a no-op; MoveFileEx already persists the rename on NTFS.
func syncDir(string) error { return nil }
