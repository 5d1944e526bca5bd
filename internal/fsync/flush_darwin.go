//go:build darwin

package fsync

import (
	"os"

	"golang.org/x/sys/unix"
)

// flush uses F_FULLFSYNC; plain fsync on macOS stops at the drive cache.
func flush(f *os.File) error {
	_, err := unix.FcntlInt(f.Fd(), unix.F_FULLFSYNC, 0)
	return err
}

func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
